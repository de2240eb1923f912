// Package match ranks employer directory entries by similarity to free
// text. Scores follow the Ratcliff/Obershelp measure: twice the number
// of matching characters over the combined length, with matching
// blocks found recursively around the longest common substring.
package match

import (
	"sort"
	"strings"
)

// Defaults mirroring the tuning the dialogue was built around.
const (
	DefaultLimit  = 5
	DefaultCutoff = 0.4
)

// Closest returns up to limit directory entries scoring at least
// cutoff against the input, best first. An input that equals a
// directory entry (case-insensitive, trimmed) short-circuits to that
// single entry. Ties keep directory order. An empty result means the
// caller should present the general directory, not reject.
func Closest(input string, directory []string, limit int, cutoff float64) []string {
	lowered := strings.ToLower(strings.TrimSpace(input))
	for _, name := range directory {
		if strings.ToLower(strings.TrimSpace(name)) == lowered {
			return []string{name}
		}
	}

	type scored struct {
		name  string
		score float64
	}
	var hits []scored
	for _, name := range directory {
		if s := Ratio(lowered, strings.ToLower(name)); s >= cutoff {
			hits = append(hits, scored{name: name, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

// Ratio scores the similarity of two strings in [0, 1].
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingChars(ra, rb)) / float64(total)
}

// matchingChars counts characters in matching blocks: the longest
// common substring, then recursively the pieces to its left and right.
func matchingChars(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	bestA, bestB, bestLen := 0, 0, 0
	prev := make([]int, len(b)+1)
	for i := range a {
		cur := make([]int, len(b)+1)
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			cur[j+1] = prev[j] + 1
			if cur[j+1] > bestLen {
				bestLen = cur[j+1]
				bestA = i + 1 - bestLen
				bestB = j + 1 - bestLen
			}
		}
		prev = cur
	}
	if bestLen == 0 {
		return 0
	}
	return bestLen +
		matchingChars(a[:bestA], b[:bestB]) +
		matchingChars(a[bestA+bestLen:], b[bestB+bestLen:])
}
