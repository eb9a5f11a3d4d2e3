package sheet

import (
	"time"

	"kwbrowse/domain/keywords"
)

// DefaultSource is the published CSV export of the keyword sheet.
const DefaultSource = "https://docs.google.com/spreadsheets/d/e/2PACX-1vRFYGhlbknWKOOAezrkK4_-gJNGk--1PAiGaBKvTOkjdF2MIvT0d0AS04rEyWElgcYgfvTR0jbKIoRd/pub?output=csv"

// SheetConfig holds configuration for the keyword sheet source
type SheetConfig struct {
	Source          string                   `json:"source"`
	SheetName       string                   `json:"sheet_name"` // xlsx only; "" = first sheet
	Timeout         time.Duration            `json:"timeout"`
	MaxBytes        int64                    `json:"max_bytes"`
	Layout          keywords.Layout          `json:"layout"`
	DuplicatePolicy keywords.DuplicatePolicy `json:"duplicate_policy"`
}

// DefaultSheetConfig returns sensible defaults for the published sheet
func DefaultSheetConfig() SheetConfig {
	return SheetConfig{
		Source:          DefaultSource,
		Timeout:         15 * time.Second,
		MaxBytes:        16 << 20,
		Layout:          keywords.DefaultLayout(),
		DuplicatePolicy: keywords.DuplicateLastWins,
	}
}
