package catalog

import (
	"math"
	"sort"
	"strings"
)

// Relevance scoring constants. The composite score is the contract the
// search ordering depends on, so the constants and branch order are fixed.
const (
	exactMatchScore     = 1000.0
	prefixMatchScore    = 50.0
	wordCoverageWeight  = 30.0
	compactnessWeight   = 20.0
	popularityLogWeight = 5.0
)

// Score computes the composite relevance of name against a free-text
// query. An exact match (case-insensitive, trimmed) short-circuits at
// 1000; otherwise prefix match, per-word substring coverage, a length
// ratio rewarding compact names, and a logarithmic popularity boost
// are summed.
func Score(name, query string, popularity float64) float64 {
	n := strings.TrimSpace(strings.ToLower(name))
	q := strings.TrimSpace(strings.ToLower(query))

	if n == q {
		return exactMatchScore
	}

	score := 0.0

	if strings.HasPrefix(n, q) {
		score += prefixMatchScore
	}

	queryWords := strings.Fields(q)
	if len(queryWords) > 0 {
		nameWords := strings.Fields(n)
		matched := 0
		for _, qw := range queryWords {
			for _, nw := range nameWords {
				if strings.Contains(nw, qw) {
					matched++
					break
				}
			}
		}
		score += float64(matched) / float64(len(queryWords)) * wordCoverageWeight
	}

	if len(n) > 0 {
		score += float64(len(q)) / float64(len(n)) * compactnessWeight
	}

	if popularity > 0 {
		score += math.Log10(popularity+1) * popularityLogWeight
	}

	return score
}

// rankResults assigns relevance scores and orders results descending.
// Ties keep their original merge order (stable sort).
func rankResults(results []SearchResult, query string) {
	for i := range results {
		results[i].Score = Score(results[i].DisplayName(), query, results[i].popularity())
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
