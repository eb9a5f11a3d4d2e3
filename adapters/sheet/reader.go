package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kwbrowse/domain/core"
	"kwbrowse/domain/keywords"
	"kwbrowse/internal"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DataReader fetches a sheet from a URL or local path and decodes it as CSV
// or XLSX into a raw table. It never interprets headers.
type DataReader struct {
	client    *http.Client
	sheetName string
	maxBytes  int64
	log       *internal.Logger
}

// NewDataReader creates a reader from the sheet configuration
func NewDataReader(config SheetConfig, log *internal.Logger) *DataReader {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &DataReader{
		client:    &http.Client{Timeout: config.Timeout},
		sheetName: config.SheetName,
		maxBytes:  config.MaxBytes,
		log:       log,
	}
}

// WithHTTPClient swaps the client, e.g. for tests.
func (r *DataReader) WithHTTPClient(client *http.Client) *DataReader {
	r.client = client
	return r
}

// Fetch reads source and decodes it. Every failure is reported as
// core.ErrDataUnavailable.
func (r *DataReader) Fetch(ctx context.Context, source string) (keywords.RawTable, error) {
	startTime := time.Now()

	payload, err := r.read(ctx, source)
	if err != nil {
		return nil, core.NewDataUnavailableError(source, err)
	}
	if len(bytes.TrimSpace(payload.Body)) == 0 {
		return nil, core.NewDataUnavailableError(source, fmt.Errorf("empty response"))
	}

	format := detectFormat(payload)
	var raw keywords.RawTable
	switch format {
	case FormatXLSX:
		raw, err = r.decodeXLSX(payload.Body)
	default:
		raw, err = decodeCSV(payload.Body)
	}
	if err != nil {
		return nil, core.NewDataUnavailableError(source, err)
	}

	r.log.Debug("[DataReader] %s read in %.2fms (%d rows, %s)",
		source, float64(time.Since(startTime).Nanoseconds())/1e6, len(raw), format)
	return raw, nil
}

func (r *DataReader) read(ctx context.Context, source string) (*Payload, error) {
	if isRemote(source) {
		return r.readHTTP(ctx, source)
	}
	return r.readFile(source)
}

func (r *DataReader) readHTTP(ctx context.Context, source string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, "+xlsxContentType+";q=0.9, */*;q=0.1")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := r.readLimited(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Payload{Source: source, ContentType: resp.Header.Get("Content-Type"), Body: body}, nil
}

func (r *DataReader) readFile(source string) (*Payload, error) {
	path := strings.TrimPrefix(source, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	body, err := r.readLimited(f)
	if err != nil {
		return nil, err
	}
	return &Payload{Source: source, Body: body}, nil
}

func (r *DataReader) readLimited(rd io.Reader) ([]byte, error) {
	if r.maxBytes <= 0 {
		return io.ReadAll(rd)
	}
	body, err := io.ReadAll(io.LimitReader(rd, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > r.maxBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", r.maxBytes)
	}
	return body, nil
}

// decodeCSV reads every record. Rows may have differing lengths.
func decodeCSV(body []byte) (keywords.RawTable, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return keywords.RawTable(rows), nil
}

// decodeXLSX reads the configured sheet, or the first one.
func (r *DataReader) decodeXLSX(body []byte) (keywords.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.sheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return keywords.RawTable(rows), nil
}

func isRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func detectFormat(p *Payload) Format {
	if p.ContentType != "" {
		if mt, _, err := mime.ParseMediaType(p.ContentType); err == nil && mt == xlsxContentType {
			return FormatXLSX
		}
	}

	path := p.Source
	if u, err := url.Parse(p.Source); err == nil && u.Path != "" {
		path = u.Path
		if out := u.Query().Get("output"); out == "xlsx" {
			return FormatXLSX
		}
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}

	// zip magic: xlsx served without a useful name or type
	if bytes.HasPrefix(p.Body, []byte("PK\x03\x04")) {
		return FormatXLSX
	}
	return FormatCSV
}
