package builder

const (
	minDistractors = 3
	maxDistractors = 8
)

// distractorCount returns how many distractors an exercise with n correct
// tokens gets: half the sentence length, clamped to [3, 8].
func distractorCount(n int) int {
	k := n / 2
	if k < minDistractors {
		k = minDistractors
	}
	if k > maxDistractors {
		k = maxDistractors
	}
	return k
}

// selectDistractors picks up to count distractors from pool, excluding any
// token in the correct set and any token that would not survive the tile
// validity filter. The pool copy is shuffled so the pick is uniform; if
// fewer candidates remain than requested, all of them are used.
func (b *Builder) selectDistractors(pool []string, correct map[string]struct{}, count int) []string {
	candidates := make([]string, 0, len(pool))
	for _, token := range pool {
		if _, used := correct[token]; used {
			continue
		}
		if !ValidToken(token) {
			continue
		}
		candidates = append(candidates, token)
	}

	b.shuffle(candidates)
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}
