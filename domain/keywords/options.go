package keywords

import "strings"

// OptionKind tags an entry of an OptionList.
type OptionKind int

const (
	OptionHeading OptionKind = iota
	OptionKeyword
)

func (k OptionKind) String() string {
	switch k {
	case OptionHeading:
		return "heading"
	case OptionKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// MarshalText lets JSON encoders emit the kind by name.
func (k OptionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Option is either a column heading or a keyword under that column.
type Option struct {
	Kind  OptionKind `json:"kind"`
	Label string     `json:"label"`
	Text  string     `json:"text"`
}

// IsHeading reports whether the option marks a column boundary.
func (o Option) IsHeading() bool { return o.Kind == OptionHeading }

// String renders the option the way a flat select box expects it.
func (o Option) String() string {
	if o.IsHeading() {
		return HeadingMarker(o.Label)
	}
	return o.Text
}

// OptionList is a flat, ordered selection list.
type OptionList []Option

// Strings collapses the list to plain strings, headings as markers.
func (l OptionList) Strings() []string {
	out := make([]string, len(l))
	for i, o := range l {
		out[i] = o.String()
	}
	return out
}

const (
	headingPrefix = "--- "
	headingSuffix = " ---"
)

// HeadingMarker wraps a label as "--- A ---".
func HeadingMarker(label string) string {
	return headingPrefix + label + headingSuffix
}

// IsHeadingMarker reports whether s follows the heading convention. Only the
// textual rendering needs this; OptionList carries the kind explicitly.
func IsHeadingMarker(s string) bool {
	return len(s) >= len(headingPrefix)+len(headingSuffix) &&
		strings.HasPrefix(s, headingPrefix) && strings.HasSuffix(s, headingSuffix)
}

// BuildOptions emits, for every column in order, a heading followed by the
// column's keywords.
func BuildOptions(table *KeywordTable) OptionList {
	out := make(OptionList, 0, table.Len()+table.TotalKeywords())
	for _, c := range table.columnsOrNil() {
		out = append(out, Option{Kind: OptionHeading, Label: c.Label, Text: c.Label})
		for _, kw := range c.Keywords {
			out = append(out, Option{Kind: OptionKeyword, Label: c.Label, Text: kw})
		}
	}
	return out
}

// Joined returns every keyword separated by a single space, in pool order.
// The word cloud consumes this form.
func (t *KeywordTable) Joined() string {
	return strings.Join(t.All(), " ")
}
