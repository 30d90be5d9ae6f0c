package util

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// LevenshteinDistance returns the edit distance between a and b.
func LevenshteinDistance(a, b string) int {
	return fuzzy.LevenshteinDistance(a, b)
}

// SuggestSimilar returns the candidates that look like a mistyped input:
// those within maxDistance edits (exclusive, case-insensitive) and those the
// input fuzzily matches as a subsequence. Results are ordered by edit
// distance, ties keeping candidate order.
func SuggestSimilar(input string, candidates []string, maxDistance int) []string {
	if input == "" || len(candidates) == 0 {
		return nil
	}

	lower := strings.ToLower(input)
	matched := make(map[string]bool)
	for _, r := range fuzzy.RankFindFold(input, candidates) {
		matched[r.Target] = true
	}

	type scored struct {
		name string
		dist int
	}
	var hits []scored
	for _, c := range candidates {
		d := LevenshteinDistance(lower, strings.ToLower(c))
		if d < maxDistance || matched[c] {
			hits = append(hits, scored{name: c, dist: d})
		}
	}
	if len(hits) == 0 {
		return nil
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}
