package keywords

import (
	"fmt"
	"strings"

	"kwbrowse/domain/core"
)

// Clean turns a raw table into a KeywordTable:
//   - the header row supplies column labels
//   - the header and skipped rows are not data
//   - dropped columns are removed
//   - a first data cell equal to its column's label is a placeholder and removed
//   - blank cells are dropped, order preserved
//
// Columns that end up with no keywords are kept with an empty list.
func Clean(raw RawTable, layout Layout, policy DuplicatePolicy) (*KeywordTable, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if len(raw) < layout.MinRows() {
		return nil, fmt.Errorf("%w: got %d, need at least %d", core.ErrTooFewRows, len(raw), layout.MinRows())
	}

	skipped := layout.skipSet()
	dropped := layout.dropSet()

	var dataRows []int
	for r := layout.HeaderRow + 1; r < len(raw); r++ {
		if !skipped[r] {
			dataRows = append(dataRows, r)
		}
	}

	header := raw[layout.HeaderRow]
	columns := make([]Column, 0, len(header))
	seen := make(map[string]bool, len(header))
	for col, rawLabel := range header {
		if dropped[col] {
			continue
		}
		label := strings.TrimSpace(rawLabel)
		if seen[label] && policy == DuplicateReject {
			return nil, fmt.Errorf("%w: %q at column %d", core.ErrDuplicateLabel, label, col)
		}
		seen[label] = true
		columns = append(columns, Column{
			Label:    label,
			Keywords: columnKeywords(raw, dataRows, col, label),
		})
	}

	return NewKeywordTable(columns), nil
}

func columnKeywords(raw RawTable, dataRows []int, col int, label string) []string {
	kws := make([]string, 0, len(dataRows))
	for i, r := range dataRows {
		cell := strings.TrimSpace(raw.Cell(r, col))
		if i == 0 && cell == label {
			continue
		}
		if cell == "" {
			continue
		}
		kws = append(kws, cell)
	}
	return kws
}
