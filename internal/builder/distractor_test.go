package builder

import (
	"math/rand"
	"testing"
)

func TestDistractorCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 3},
		{2, 3},
		{3, 3},
		{4, 3}, // floor(2) clamped up to the minimum of 3
		{6, 3},
		{7, 3},
		{8, 4},
		{10, 5},
		{15, 7},
		{16, 8},
		{20, 8}, // capped at 8
		{100, 8},
	}

	for _, tt := range tests {
		if got := distractorCount(tt.n); got != tt.want {
			t.Errorf("distractorCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestSelectDistractors_ExcludesCorrectAndInvalid(t *testing.T) {
	b := New(nil, rand.New(rand.NewSource(1)))
	pool := []string{"犬", "。", "猫", "学生", `"引用`, "先生", "本"}
	correct := map[string]struct{}{"学生": {}, "本": {}}

	for seed := int64(0); seed < 50; seed++ {
		b.rng = rand.New(rand.NewSource(seed))
		got := b.selectDistractors(pool, correct, 3)
		if len(got) != 3 {
			t.Fatalf("seed %d: got %d distractors, want 3", seed, len(got))
		}
		for _, d := range got {
			if _, clash := correct[d]; clash {
				t.Errorf("seed %d: distractor %q collides with a correct token", seed, d)
			}
			if !ValidToken(d) {
				t.Errorf("seed %d: invalid distractor %q selected", seed, d)
			}
		}
	}
}

func TestSelectDistractors_ShortPoolUsesAll(t *testing.T) {
	b := New(nil, rand.New(rand.NewSource(7)))
	pool := []string{"犬", "猫"}

	got := b.selectDistractors(pool, map[string]struct{}{}, 5)
	if len(got) != 2 {
		t.Fatalf("got %d distractors, want all 2 available", len(got))
	}
}

func TestShuffle_Uniformity(t *testing.T) {
	// Every permutation of three elements should appear with roughly
	// equal frequency. 6 permutations over 60000 trials: expect ~10000
	// each; allow ±10%.
	b := New(nil, rand.New(rand.NewSource(42)))
	counts := make(map[string]int)

	const trials = 60000
	for i := 0; i < trials; i++ {
		s := []string{"a", "b", "c"}
		b.shuffle(s)
		counts[s[0]+s[1]+s[2]]++
	}

	if len(counts) != 6 {
		t.Fatalf("saw %d permutations, want 6", len(counts))
	}
	expected := trials / 6
	for perm, n := range counts {
		if n < expected*9/10 || n > expected*11/10 {
			t.Errorf("permutation %s occurred %d times, want ~%d", perm, n, expected)
		}
	}
}
