package keywords

import (
	"fmt"

	"kwbrowse/domain/core"
)

// Layout names the positional contract of the source spreadsheet: which row
// carries the column labels, which rows are decoration, and which columns
// hold values unrelated to keywords.
type Layout struct {
	HeaderRow   int   `json:"header_row"`
	SkipRows    []int `json:"skip_rows"`
	DropColumns []int `json:"drop_columns"`
}

// DefaultLayout matches the published keyword sheet: a decorative first row,
// labels on the second row, and an internal reference in the first column.
func DefaultLayout() Layout {
	return Layout{
		HeaderRow:   1,
		SkipRows:    []int{0},
		DropColumns: []int{0},
	}
}

// Validate checks the layout is self-consistent. Every row above the header
// must be listed in SkipRows so nothing is silently ignored.
func (l Layout) Validate() error {
	if l.HeaderRow < 0 {
		return core.NewInvalidArgumentError("header_row", fmt.Sprintf("must be >= 0, got %d", l.HeaderRow))
	}
	skipped := l.skipSet()
	for idx := range skipped {
		if idx < 0 {
			return core.NewInvalidArgumentError("skip_rows", fmt.Sprintf("negative index %d", idx))
		}
		if idx == l.HeaderRow {
			return core.NewInvalidArgumentError("skip_rows", fmt.Sprintf("cannot skip header row %d", idx))
		}
	}
	for row := 0; row < l.HeaderRow; row++ {
		if !skipped[row] {
			return core.NewInvalidArgumentError("skip_rows", fmt.Sprintf("row %d precedes the header but is not skipped", row))
		}
	}
	for _, col := range l.DropColumns {
		if col < 0 {
			return core.NewInvalidArgumentError("drop_columns", fmt.Sprintf("negative index %d", col))
		}
	}
	return nil
}

// MinRows is the shortest raw table that has a header and one data row.
func (l Layout) MinRows() int {
	return l.HeaderRow + 2
}

func (l Layout) skipSet() map[int]bool {
	set := make(map[int]bool, len(l.SkipRows))
	for _, r := range l.SkipRows {
		set[r] = true
	}
	return set
}

func (l Layout) dropSet() map[int]bool {
	set := make(map[int]bool, len(l.DropColumns))
	for _, c := range l.DropColumns {
		set[c] = true
	}
	return set
}

// DuplicatePolicy decides what happens when two columns share a label.
type DuplicatePolicy string

const (
	// DuplicateLastWins keeps the first column's position and the last
	// column's keywords.
	DuplicateLastWins DuplicatePolicy = "last_wins"
	// DuplicateReject fails the load with ErrDuplicateLabel.
	DuplicateReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy maps a config string to a policy; "" means last-wins.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "", DuplicateLastWins:
		return DuplicateLastWins, nil
	case DuplicateReject:
		return DuplicateReject, nil
	default:
		return "", core.NewInvalidArgumentError("duplicate_policy", fmt.Sprintf("unknown value %q", s))
	}
}
