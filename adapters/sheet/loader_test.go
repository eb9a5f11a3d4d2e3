package sheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"kwbrowse/domain/core"
	"kwbrowse/domain/keywords"
	"kwbrowse/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRawSource struct {
	mock.Mock
}

func (m *MockRawSource) Fetch(ctx context.Context, source string) (keywords.RawTable, error) {
	args := m.Called(ctx, source)
	raw, _ := args.Get(0).(keywords.RawTable)
	return raw, args.Error(1)
}

func TestLoadKeywordsEndToEnd(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	config := DefaultSheetConfig()
	config.Source = srv.URL
	loader := NewLoader(config, internal.NewNopLogger())

	table, err := loader.LoadKeywords(context.Background(), "")
	require.NoError(t, err)
	a, _ := table.Column("A")
	b, _ := table.Column("B")
	assert.Equal(t, []string{"k1", "k2"}, a.Keywords)
	assert.Equal(t, []string{"k3"}, b.Keywords)

	// stateless: a second call fetches again
	_, err = loader.LoadKeywords(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestLoadKeywordsUsesDefaultSource(t *testing.T) {
	src := new(MockRawSource)
	src.On("Fetch", mock.Anything, "mem://default").Return(keywords.RawTable{
		{"ref"}, {"id", "A"}, {"1", "a1"},
	}, nil)
	src.On("Fetch", mock.Anything, "mem://other").Return(keywords.RawTable{
		{"ref"}, {"id", "Z"}, {"1", "z1"},
	}, nil)

	config := DefaultSheetConfig()
	config.Source = "mem://default"
	loader := NewLoaderWithSource(config, src, internal.NewNopLogger())

	table, err := loader.LoadKeywords(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, table.Labels())

	table, err = loader.LoadKeywords(context.Background(), "mem://other")
	require.NoError(t, err)
	assert.Equal(t, []string{"Z"}, table.Labels())

	src.AssertExpectations(t)
}

func TestLoadKeywordsFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  keywords.RawTable
		err  error
	}{
		{"fetch error", nil, errors.New("connection reset")},
		{"too short", keywords.RawTable{{"x"}, {"id", "A"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(MockRawSource)
			src.On("Fetch", mock.Anything, "mem://x").Return(tt.raw, tt.err)

			config := DefaultSheetConfig()
			config.Source = "mem://x"
			table, err := NewLoaderWithSource(config, src, internal.NewNopLogger()).LoadKeywords(context.Background(), "")
			assert.Nil(t, table)
			assert.True(t, core.IsDataUnavailable(err), "got %v", err)
		})
	}
}

func TestLoadKeywordsInvalidLayout(t *testing.T) {
	src := new(MockRawSource)
	src.On("Fetch", mock.Anything, "mem://x").Return(keywords.RawTable{{"a"}, {"b"}, {"c"}}, nil)

	config := DefaultSheetConfig()
	config.Source = "mem://x"
	config.Layout = keywords.Layout{HeaderRow: 2}
	_, err := NewLoaderWithSource(config, src, internal.NewNopLogger()).LoadKeywords(context.Background(), "")
	assert.True(t, core.IsInvalidArgument(err))
}

func TestLoadKeywordsNoSource(t *testing.T) {
	config := DefaultSheetConfig()
	config.Source = ""
	_, err := NewLoaderWithSource(config, new(MockRawSource), internal.NewNopLogger()).LoadKeywords(context.Background(), "")
	assert.True(t, core.IsDataUnavailable(err))
}

func TestLoadKeywordsKeepsReaderError(t *testing.T) {
	fetchErr := core.NewDataUnavailableError("mem://x", errors.New("timeout"))
	src := new(MockRawSource)
	src.On("Fetch", mock.Anything, "mem://x").Return(nil, fetchErr)

	config := DefaultSheetConfig()
	config.Source = "mem://x"
	_, err := NewLoaderWithSource(config, src, internal.NewNopLogger()).LoadKeywords(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "keyword data unavailable: mem://x: timeout", err.Error())
	assert.Equal(t, 1, strings.Count(err.Error(), "mem://x"))
}
