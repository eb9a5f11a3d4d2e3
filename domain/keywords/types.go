package keywords

// RawTable is the fetched tabular content before any header interpretation.
// Rows may be ragged; a missing cell reads as empty.
type RawTable [][]string

// Cell returns the value at (row, col), or "" when the row is too short.
func (t RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t) || col < 0 || col >= len(t[row]) {
		return ""
	}
	return t[row][col]
}

// Column is one labelled list of keywords.
type Column struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

func (c Column) clone() Column {
	kws := make([]string, len(c.Keywords))
	copy(kws, c.Keywords)
	return Column{Label: c.Label, Keywords: kws}
}

// KeywordTable is the cleaned result of a load: columns in their original
// left-to-right order, labels unique. It is never mutated after construction.
type KeywordTable struct {
	columns []Column
	index   map[string]int
}

// NewKeywordTable builds a table from columns. Labels must be unique; a
// repeated label replaces the earlier column's keywords in place.
func NewKeywordTable(columns []Column) *KeywordTable {
	t := &KeywordTable{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		c = c.clone()
		if i, ok := t.index[c.Label]; ok {
			t.columns[i] = c
			continue
		}
		t.index[c.Label] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t
}

// Len returns the number of columns.
func (t *KeywordTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.columns)
}

// Labels returns column labels in order.
func (t *KeywordTable) Labels() []string {
	labels := make([]string, 0, t.Len())
	for _, c := range t.columnsOrNil() {
		labels = append(labels, c.Label)
	}
	return labels
}

// Columns returns a copy of the columns in order.
func (t *KeywordTable) Columns() []Column {
	out := make([]Column, 0, t.Len())
	for _, c := range t.columnsOrNil() {
		out = append(out, c.clone())
	}
	return out
}

// Column looks up a column by label.
func (t *KeywordTable) Column(label string) (Column, bool) {
	if t == nil {
		return Column{}, false
	}
	i, ok := t.index[label]
	if !ok {
		return Column{}, false
	}
	return t.columns[i].clone(), true
}

// TotalKeywords counts keywords across all columns.
func (t *KeywordTable) TotalKeywords() int {
	n := 0
	for _, c := range t.columnsOrNil() {
		n += len(c.Keywords)
	}
	return n
}

// All flattens every keyword in column order, then within-column order.
// This is the candidate pool handed to the fuzzy matcher.
func (t *KeywordTable) All() []string {
	out := make([]string, 0, t.TotalKeywords())
	for _, c := range t.columnsOrNil() {
		out = append(out, c.Keywords...)
	}
	return out
}

func (t *KeywordTable) columnsOrNil() []Column {
	if t == nil {
		return nil
	}
	return t.columns
}

// Block is a contiguous run of columns shown together.
type Block struct {
	Label   string   `json:"label"`
	Columns []Column `json:"columns"`
}

// GroupedTable is the display partition of a KeywordTable.
type GroupedTable struct {
	Blocks []Block `json:"blocks"`
}

// Flatten returns the columns of every block, blocks in order.
func (g *GroupedTable) Flatten() []Column {
	if g == nil {
		return nil
	}
	var out []Column
	for _, b := range g.Blocks {
		out = append(out, b.Columns...)
	}
	return out
}

// Block returns the block with the given label.
func (g *GroupedTable) Block(label string) (Block, bool) {
	if g == nil {
		return Block{}, false
	}
	for _, b := range g.Blocks {
		if b.Label == label {
			return b, true
		}
	}
	return Block{}, false
}
