package container

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kwbrowse/domain/core"
	"kwbrowse/domain/keywords"
	"kwbrowse/internal"
	"kwbrowse/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLoader struct {
	err error
}

func (f fixedLoader) LoadKeywords(ctx context.Context, source string) (*keywords.KeywordTable, error) {
	if f.err != nil {
		return nil, f.err
	}
	return keywords.NewKeywordTable([]keywords.Column{
		{Label: "A", Keywords: []string{"alpha"}},
		{Label: "B", Keywords: []string{"beta"}},
	}), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Source: config.SourceConfig{URL: "mem://sheet"},
		Browse: config.BrowseConfig{ChunkSize: 2, SuggestionLimit: 5, CacheTTL: time.Minute, Title: "Test"},
		Cloud:  config.CloudConfig{Enabled: true, Width: 800, Height: 400, Background: "white"},
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	_, err = NewWithLoader(testConfig(), nil, nil)
	assert.Error(t, err)
}

func TestContainerWiresShells(t *testing.T) {
	c, err := NewWithLoader(testConfig(), fixedLoader{}, internal.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Catalog.ChunkSize())

	c.Warm(context.Background())
	require.NotNil(t, c.Catalog.Current())
	assert.Equal(t, "A – B", c.Catalog.Current().Groups.Blocks[0].Label)

	app, err := c.UIApp()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NotNil(t, c.APIHandler())
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestWarmToleratesFailure(t *testing.T) {
	loader := fixedLoader{err: core.NewDataUnavailableError("mem://sheet", errors.New("down"))}
	c, err := NewWithLoader(testConfig(), loader, internal.NewNopLogger())
	require.NoError(t, err)

	c.Warm(context.Background())
	assert.Nil(t, c.Catalog.Current())
}
