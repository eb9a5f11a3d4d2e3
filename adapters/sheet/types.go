package sheet

// Format identifies how a fetched payload is decoded.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Payload is the raw body of a fetch plus what is known about its encoding.
type Payload struct {
	Source      string
	ContentType string
	Body        []byte
}
