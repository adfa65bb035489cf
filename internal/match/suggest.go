package match

// MinSimilarity is the lowest score Closest accepts as a suggestion.
const MinSimilarity = 0.5

// Closest returns the candidate most similar to name. Ties go to the
// earlier candidate. It reports false when no candidate scores at least
// MinSimilarity.
func Closest(name string, candidates []string) (string, bool) {
	var (
		best  string
		score float64
	)

	for _, candidate := range candidates {
		if s := Similarity(name, candidate); s > score {
			best, score = candidate, s
		}
	}

	return best, score >= MinSimilarity
}
