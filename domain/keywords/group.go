package keywords

import (
	"fmt"

	"kwbrowse/domain/core"
)

// BlockSeparator sits between the first and last label of a block.
const BlockSeparator = " – "

// DefaultChunkSize is the number of letter columns per block.
const DefaultChunkSize = 3

// GroupColumns partitions the table's columns into consecutive blocks of
// chunkSize; the last block holds the remainder. Each block is labelled
// "<first> – <last>".
func GroupColumns(table *KeywordTable, chunkSize int) (*GroupedTable, error) {
	if chunkSize <= 0 {
		return nil, core.NewInvalidArgumentError("chunk_size", fmt.Sprintf("must be positive, got %d", chunkSize))
	}

	cols := table.Columns()
	grouped := &GroupedTable{Blocks: make([]Block, 0, BlockCount(len(cols), chunkSize))}
	for start := 0; start < len(cols); start += chunkSize {
		end := start + chunkSize
		if end > len(cols) {
			end = len(cols)
		}
		run := cols[start:end:end]
		grouped.Blocks = append(grouped.Blocks, Block{
			Label:   BlockLabel(run[0].Label, run[len(run)-1].Label),
			Columns: run,
		})
	}
	return grouped, nil
}

// BlockLabel formats the label of a block spanning first..last.
func BlockLabel(first, last string) string {
	return first + BlockSeparator + last
}

// BlockCount is ceil(columns / chunkSize).
func BlockCount(columns, chunkSize int) int {
	if chunkSize <= 0 {
		return 0
	}
	return (columns + chunkSize - 1) / chunkSize
}
