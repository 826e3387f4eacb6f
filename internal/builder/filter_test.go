package builder

import "testing"

func TestValidToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"tab and newline", "\t\n", false},
		{"cjk period", "。", false},
		{"cjk comma", "、", false},
		{"ascii period", ".", false},
		{"multi punctuation", "……", false},
		{"mixed punctuation run", "。」", false},
		{"fullwidth tilde", "～", false},
		{"leading straight quote", `"hello`, false},
		{"trailing straight quote", `hello"`, false},
		{"leading curly quote", "“你好", false},
		{"trailing curly quote", "你好”", false},
		{"leading single quote", "'ben", false},
		{"plain japanese", "学生", true},
		{"japanese particle", "は", true},
		{"hangul morpheme", "뭔가", true},
		{"turkish word", "geliyorum", true},
		{"latin word", "Tom", true},
		{"inner apostrophe", "it's", true}, // quote check looks at edges only
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidToken(tt.token); got != tt.want {
				t.Errorf("ValidToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestValidTokens_PreservesOrder(t *testing.T) {
	in := []string{"私", "は", "。", "学生", "", "です", "！"}
	want := []string{"私", "は", "学生", "です"}

	got := ValidTokens(in)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSuitableEnglish(t *testing.T) {
	tests := []struct {
		name    string
		english string
		want    bool
	}{
		{"plain sentence", "Hello there.", true},
		{"single quoted span", `He said "hello" to me.`, true},
		{"two quoted utterances", `"Hello." "Hi there."`, false},
		{"quotes split by newline", "\"Yes.\"\n\"No.\"", false},
		{"adjacent quotes no space", `""`, true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuitableEnglish(tt.english); got != tt.want {
				t.Errorf("SuitableEnglish(%q) = %v, want %v", tt.english, got, tt.want)
			}
		})
	}
}
