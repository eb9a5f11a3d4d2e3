package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"kwbrowse/adapters/sheet"
	"kwbrowse/domain/keywords"
	"kwbrowse/internal/cloud"
	"kwbrowse/internal/errors"
	"kwbrowse/internal/search"
)

// Config represents the complete application configuration
type Config struct {
	Source SourceConfig
	Browse BrowseConfig
	Cloud  CloudConfig
	Server ServerConfig
	Log    LogConfig
}

// SourceConfig holds where and how the keyword sheet is read
type SourceConfig struct {
	URL             string
	SheetName       string
	Timeout         time.Duration
	MaxBytes        int64
	HeaderRow       int
	SkipRows        []int
	DropColumns     []int
	DuplicatePolicy keywords.DuplicatePolicy
}

// BrowseConfig holds presentation settings
type BrowseConfig struct {
	ChunkSize       int
	SuggestionLimit int
	CacheTTL        time.Duration
	Title           string
	IntroMarkdown   string
}

// CloudConfig holds word cloud settings
type CloudConfig struct {
	Enabled    bool
	Width      int
	Height     int
	Background string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	sourceConfig, err := loadSourceConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load source configuration")
	}

	config := &Config{
		Source: *sourceConfig,
		Browse: *loadBrowseConfig(),
		Cloud:  *loadCloudConfig(),
		Server: *loadServerConfig(),
		Log:    LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// SheetConfig converts the source settings for the sheet adapter
func (c *Config) SheetConfig() sheet.SheetConfig {
	sc := sheet.DefaultSheetConfig()
	sc.Source = c.Source.URL
	sc.SheetName = c.Source.SheetName
	sc.Timeout = c.Source.Timeout
	sc.MaxBytes = c.Source.MaxBytes
	sc.Layout = keywords.Layout{
		HeaderRow:   c.Source.HeaderRow,
		SkipRows:    c.Source.SkipRows,
		DropColumns: c.Source.DropColumns,
	}
	sc.DuplicatePolicy = c.Source.DuplicatePolicy
	return sc
}

// CloudRenderConfig converts the cloud settings for the renderer
func (c *Config) CloudRenderConfig() cloud.Config {
	return cloud.Config{Width: c.Cloud.Width, Height: c.Cloud.Height, Background: c.Cloud.Background}
}

func loadSourceConfig() (*SourceConfig, error) {
	defaults := sheet.DefaultSheetConfig()

	skipRows, err := getEnvIntListOrDefault("SKIP_ROWS", defaults.Layout.SkipRows)
	if err != nil {
		return nil, err
	}
	dropColumns, err := getEnvIntListOrDefault("DROP_COLUMNS", defaults.Layout.DropColumns)
	if err != nil {
		return nil, err
	}
	policy, err := keywords.ParseDuplicatePolicy(getEnvOrDefault("DUPLICATE_LABELS", ""))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	return &SourceConfig{
		URL:             getEnvOrDefault("KEYWORDS_SOURCE", defaults.Source),
		SheetName:       getEnvOrDefault("KEYWORDS_SHEET", ""),
		Timeout:         getEnvDurationOrDefault("FETCH_TIMEOUT", defaults.Timeout),
		MaxBytes:        int64(getEnvIntOrDefault("FETCH_MAX_BYTES", int(defaults.MaxBytes))),
		HeaderRow:       getEnvIntOrDefault("HEADER_ROW", defaults.Layout.HeaderRow),
		SkipRows:        skipRows,
		DropColumns:     dropColumns,
		DuplicatePolicy: policy,
	}, nil
}

func loadBrowseConfig() *BrowseConfig {
	return &BrowseConfig{
		ChunkSize:       getEnvIntOrDefault("CHUNK_SIZE", keywords.DefaultChunkSize),
		SuggestionLimit: getEnvIntOrDefault("SUGGESTION_LIMIT", search.DefaultLimit),
		CacheTTL:        getEnvDurationOrDefault("CACHE_TTL", 5*time.Minute),
		Title:           getEnvOrDefault("APP_TITLE", "Keyword Explorer"),
		IntroMarkdown:   getEnvOrDefault("INTRO_MARKDOWN", ""),
	}
}

func loadCloudConfig() *CloudConfig {
	defaults := cloud.DefaultConfig()
	return &CloudConfig{
		Enabled:    getEnvBoolOrDefault("CLOUD_ENABLED", true),
		Width:      getEnvIntOrDefault("CLOUD_WIDTH", defaults.Width),
		Height:     getEnvIntOrDefault("CLOUD_HEIGHT", defaults.Height),
		Background: getEnvOrDefault("CLOUD_BACKGROUND", defaults.Background),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Source.URL) == "" {
		return errors.ConfigInvalid("KEYWORDS_SOURCE is required")
	}
	if config.Browse.ChunkSize <= 0 {
		return errors.ConfigInvalid("CHUNK_SIZE must be positive")
	}
	if config.Browse.SuggestionLimit <= 0 {
		return errors.ConfigInvalid("SUGGESTION_LIMIT must be positive")
	}
	if config.Source.Timeout <= 0 {
		return errors.ConfigInvalid("FETCH_TIMEOUT must be positive")
	}
	if err := config.SheetConfig().Layout.Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if config.Cloud.Enabled {
		if err := config.CloudRenderConfig().Validate(); err != nil {
			return errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvIntListOrDefault parses "0,2,5". An explicitly empty list is written "-".
func getEnvIntListOrDefault(key string, defaultValue []int) ([]int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	if value == "-" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.ConfigInvalid(fmt.Sprintf("%s: %q is not an integer", key, p))
		}
		out = append(out, n)
	}
	return out, nil
}
