package sheet

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"kwbrowse/domain/core"
	"kwbrowse/domain/keywords"
	"kwbrowse/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "ref,x,x\n" +
	"id,A,B\n" +
	"r1,A,k3\n" +
	"r2,k1,\n" +
	"r3,k2\n"

func testReader() *DataReader {
	return NewDataReader(DefaultSheetConfig(), internal.NewNopLogger())
}

func TestFetchCSVOverHTTPS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	// the default client does not trust the test certificate
	_, err := testReader().Fetch(context.Background(), srv.URL)
	assert.True(t, core.IsDataUnavailable(err))

	raw, err := testReader().WithHTTPClient(srv.Client()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, raw, 5)
}

func TestFetchCSVOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	raw, err := testReader().Fetch(context.Background(), srv.URL+"/pub?output=csv")
	require.NoError(t, err)
	require.Len(t, raw, 5)
	assert.Equal(t, []string{"id", "A", "B"}, raw[1])
	assert.Equal(t, []string{"r3", "k2"}, raw[4])
}

func TestFetchFailuresAreDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/empty":
			w.WriteHeader(http.StatusOK)
		case "/blank":
			_, _ = w.Write([]byte("  \n\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	for _, path := range []string{"/empty", "/blank", "/missing"} {
		_, err := testReader().Fetch(context.Background(), srv.URL+path)
		require.Error(t, err, path)
		assert.True(t, core.IsDataUnavailable(err), "%s: %v", path, err)
	}

	_, err := testReader().Fetch(context.Background(), "http://127.0.0.1:1/unreachable.csv")
	assert.True(t, core.IsDataUnavailable(err))

	_, err = testReader().Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.True(t, core.IsDataUnavailable(err))
}

func TestFetchRespectsMaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("a,b\n"), 100))
	}))
	defer srv.Close()

	config := DefaultSheetConfig()
	config.MaxBytes = 64
	_, err := NewDataReader(config, internal.NewNopLogger()).Fetch(context.Background(), srv.URL)
	assert.True(t, core.IsDataUnavailable(err))
}

func TestFetchLocalCSVWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.csv")
	require.NoError(t, os.WriteFile(path, append([]byte("\xef\xbb\xbf"), sampleCSV...), 0o644))

	raw, err := testReader().Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "ref", raw[0][0])
}

func TestFetchXLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"ref"},
		{"id", "A", "B"},
		{"r1", "A", "b1"},
		{"r2", "a1"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	path := filepath.Join(t.TempDir(), "keywords.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	raw, err := testReader().Fetch(context.Background(), path)
	require.NoError(t, err)

	table, err := keywords.Clean(raw, keywords.DefaultLayout(), keywords.DuplicateLastWins)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, table.Labels())
	assert.Equal(t, []string{"a1", "b1"}, table.All())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", xlsxContentType)
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	raw, err = testReader().Fetch(context.Background(), srv.URL+"/export")
	require.NoError(t, err)
	assert.Len(t, raw, 4)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    Format
	}{
		{"csv export", Payload{Source: "https://x.test/pub?output=csv", Body: []byte("a,b")}, FormatCSV},
		{"xlsx export", Payload{Source: "https://x.test/pub?output=xlsx"}, FormatXLSX},
		{"xlsx path", Payload{Source: "/tmp/k.XLSX"}, FormatXLSX},
		{"xlsx content type", Payload{Source: "https://x.test/a", ContentType: xlsxContentType}, FormatXLSX},
		{"zip magic", Payload{Source: "https://x.test/a", Body: []byte("PK\x03\x04rest")}, FormatXLSX},
		{"plain file", Payload{Source: "keywords.csv", Body: []byte("a")}, FormatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectFormat(&tt.payload))
		})
	}
}
