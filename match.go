package nodecat

import "strings"

// SimilarityThreshold is the minimum score a candidate must strictly exceed
// for BestMatch to propose it.
const SimilarityThreshold = 0.6

// BestMatch returns the candidate most similar to query, if any candidate
// scores strictly above SimilarityThreshold. Equal scores resolve to the
// lexicographically smaller candidate so the result does not depend on
// candidate order.
func BestMatch(query string, candidates []string) (string, bool) {
	var best string
	bestScore := -1.0
	for _, candidate := range candidates {
		score := Similarity(query, candidate)
		switch {
		case score > bestScore:
			best, bestScore = candidate, score
		case score == bestScore && candidate < best:
			best = candidate
		}
	}
	if bestScore <= SimilarityThreshold {
		return "", false
	}
	return best, true
}

// Similarity scores how alike two strings are on a 0..1 scale, where 1 is
// an exact match. The comparison is case-insensitive:
//
//	similarity = 1 - editDistance(a, b) / max(len(a), len(b))
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(ra, rb))/float64(longest)
}

// editDistance computes the Levenshtein distance between a and b, counting
// insertions, deletions, and substitutions at unit cost. Two-row dynamic
// program, O(len(a)*len(b)) time and O(len(b)) space.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
