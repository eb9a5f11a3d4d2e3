package config

import (
	"testing"
	"time"

	"kwbrowse/adapters/sheet"
	"kwbrowse/domain/keywords"
	"kwbrowse/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, sheet.DefaultSource, cfg.Source.URL)
	assert.Equal(t, 3, cfg.Browse.ChunkSize)
	assert.Equal(t, 10, cfg.Browse.SuggestionLimit)
	assert.Equal(t, keywords.DefaultLayout(), cfg.SheetConfig().Layout)
	assert.Equal(t, keywords.DuplicateLastWins, cfg.Source.DuplicatePolicy)
	assert.Equal(t, 800, cfg.CloudRenderConfig().Width)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KEYWORDS_SOURCE", "/data/keywords.xlsx")
	t.Setenv("KEYWORDS_SHEET", "Letters")
	t.Setenv("CHUNK_SIZE", "4")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("HEADER_ROW", "0")
	t.Setenv("SKIP_ROWS", "-")
	t.Setenv("DROP_COLUMNS", "0, 3")
	t.Setenv("DUPLICATE_LABELS", "reject")
	t.Setenv("CLOUD_ENABLED", "false")
	t.Setenv("CLOUD_WIDTH", "0")

	cfg, err := Load()
	require.NoError(t, err)

	sc := cfg.SheetConfig()
	assert.Equal(t, "/data/keywords.xlsx", sc.Source)
	assert.Equal(t, "Letters", sc.SheetName)
	assert.Equal(t, keywords.Layout{HeaderRow: 0, SkipRows: nil, DropColumns: []int{0, 3}}, sc.Layout)
	assert.Equal(t, keywords.DuplicateReject, sc.DuplicatePolicy)
	assert.Equal(t, 4, cfg.Browse.ChunkSize)
	assert.Equal(t, 30*time.Second, cfg.Browse.CacheTTL)
	assert.False(t, cfg.Cloud.Enabled)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"chunk size":       {"CHUNK_SIZE": "0"},
		"suggestion limit": {"SUGGESTION_LIMIT": "-3"},
		"skip rows":        {"SKIP_ROWS": "a,b"},
		"layout":           {"HEADER_ROW": "3"},
		"duplicates":       {"DUPLICATE_LABELS": "suffix"},
		"cloud":            {"CLOUD_HEIGHT": "-1"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
