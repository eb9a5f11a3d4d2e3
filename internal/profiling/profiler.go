package profiling

import (
	"sort"
	"unicode/utf8"

	"kwbrowse/domain/keywords"
)

// ColumnProfile is the keyword count of one column and whether it falls
// outside the table's Tukey fences.
type ColumnProfile struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Outlier bool   `json:"outlier"`
}

// Profile describes how keywords are spread across a table's columns.
type Profile struct {
	Columns       []ColumnProfile `json:"columns"`
	Counts        Summary         `json:"counts"`
	KeywordLength Summary         `json:"keyword_length"`
	Empty         []string        `json:"empty"`
	Busiest       []string        `json:"busiest"`
}

// ProfileTable computes the column profile of table. A nil or empty table
// yields an empty profile.
func ProfileTable(table *keywords.KeywordTable) (*Profile, error) {
	cols := table.Columns()
	p := &Profile{Columns: make([]ColumnProfile, 0, len(cols)), Empty: []string{}, Busiest: []string{}}

	counts := make([]float64, 0, len(cols))
	var lengths []float64
	for _, col := range cols {
		counts = append(counts, float64(len(col.Keywords)))
		for _, kw := range col.Keywords {
			lengths = append(lengths, float64(utf8.RuneCountInString(kw)))
		}
		if len(col.Keywords) == 0 {
			p.Empty = append(p.Empty, col.Label)
		}
	}

	var err error
	if p.Counts, err = summarize(counts); err != nil {
		return nil, err
	}
	if p.KeywordLength, err = summarize(lengths); err != nil {
		return nil, err
	}

	lower, upper := iqrBounds(p.Counts.Q25, p.Counts.Q75)
	for _, col := range cols {
		n := float64(len(col.Keywords))
		p.Columns = append(p.Columns, ColumnProfile{
			Label:   col.Label,
			Count:   len(col.Keywords),
			Outlier: len(cols) >= 4 && (n < lower || n > upper),
		})
	}

	p.Busiest = busiest(p.Columns, 3)
	return p, nil
}

// busiest returns up to n labels with the most keywords, ties in table order.
func busiest(cols []ColumnProfile, n int) []string {
	ranked := make([]ColumnProfile, 0, len(cols))
	for _, c := range cols {
		if c.Count > 0 {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Label
	}
	return out
}
