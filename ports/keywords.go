package ports

import (
	"context"

	"kwbrowse/domain/keywords"
)

// RawSource fetches tabular content without interpreting it.
type RawSource interface {
	Fetch(ctx context.Context, source string) (keywords.RawTable, error)
}

// KeywordLoader produces a cleaned keyword table from a source locator.
// An empty source selects the loader's default.
type KeywordLoader interface {
	LoadKeywords(ctx context.Context, source string) (*keywords.KeywordTable, error)
}

// Suggestion is one ranked "did you mean" candidate.
type Suggestion struct {
	Keyword string `json:"keyword"`
	Score   int    `json:"score"`
	Index   int    `json:"index"` // position in the candidate pool
}

// Suggester ranks candidates from pool against query and returns at most
// limit of them, best first.
type Suggester interface {
	Suggest(query string, pool []string, limit int) []Suggestion
}
