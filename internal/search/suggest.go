package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"kwbrowse/ports"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
)

// DefaultLimit is how many "did you mean" candidates are returned.
const DefaultLimit = 10

// FuzzySuggester ranks keywords with sahilm/fuzzy. Queries that are not a
// subsequence of any keyword fall back to a case-insensitive substring scan
// over the individual query terms, and then to edit distance, so a
// non-empty pool always yields the closest candidates.
type FuzzySuggester struct{}

// NewFuzzySuggester creates a suggester
func NewFuzzySuggester() *FuzzySuggester {
	return &FuzzySuggester{}
}

var _ ports.Suggester = (*FuzzySuggester)(nil)

// Suggest returns up to limit candidates, best first.
func (s *FuzzySuggester) Suggest(query string, pool []string, limit int) []ports.Suggestion {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 || len(pool) == 0 {
		return nil
	}

	matches := fuzzy.Find(query, pool)
	if len(matches) == 0 {
		if out := termFallback(query, pool, limit); len(out) > 0 {
			return out
		}
		return closest(query, pool, limit)
	}

	out := make([]ports.Suggestion, 0, min(limit, len(matches)))
	seen := make(map[string]bool, limit)
	for _, m := range matches {
		if seen[m.Str] {
			continue
		}
		seen[m.Str] = true
		out = append(out, ports.Suggestion{Keyword: m.Str, Score: m.Score, Index: m.Index})
		if len(out) == limit {
			break
		}
	}
	return out
}

// termFallback keeps pool order and scores by the number of query terms found.
func termFallback(query string, pool []string, limit int) []ports.Suggestion {
	terms := strings.Fields(strings.ToLower(query))
	type hit struct {
		s     ports.Suggestion
		terms int
	}
	var hits []hit
	seen := make(map[string]bool)
	for i, kw := range pool {
		if seen[kw] {
			continue
		}
		lower := strings.ToLower(kw)
		n := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				n++
			}
		}
		if n == 0 {
			continue
		}
		seen[kw] = true
		hits = append(hits, hit{s: ports.Suggestion{Keyword: kw, Score: n, Index: i}, terms: n})
	}

	// stable insertion sort by matched terms, pool order otherwise
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].terms > hits[j-1].terms; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	out := make([]ports.Suggestion, 0, min(limit, len(hits)))
	for _, h := range hits {
		out = append(out, h.s)
		if len(out) == limit {
			break
		}
	}
	return out
}

// closest ranks the pool by case-insensitive Levenshtein similarity, in
// percent of the longer string. Ties go to the smaller distance, then pool
// order.
func closest(query string, pool []string, limit int) []ports.Suggestion {
	q := strings.ToLower(query)
	qLen := utf8.RuneCountInString(q)

	type hit struct {
		s    ports.Suggestion
		dist int
	}
	hits := make([]hit, 0, len(pool))
	seen := make(map[string]bool, len(pool))
	for i, kw := range pool {
		if seen[kw] {
			continue
		}
		seen[kw] = true
		lower := strings.ToLower(kw)
		dist := levenshtein.ComputeDistance(q, lower)
		longest := max(qLen, utf8.RuneCountInString(lower), 1)
		score := 100 - dist*100/longest
		hits = append(hits, hit{s: ports.Suggestion{Keyword: kw, Score: score, Index: i}, dist: dist})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].s.Score != hits[j].s.Score {
			return hits[i].s.Score > hits[j].s.Score
		}
		return hits[i].dist < hits[j].dist
	})

	out := make([]ports.Suggestion, 0, min(limit, len(hits)))
	for _, h := range hits {
		out = append(out, h.s)
		if len(out) == limit {
			break
		}
	}
	return out
}
