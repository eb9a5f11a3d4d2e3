package container

import (
	"context"
	"fmt"

	"kwbrowse/adapters/sheet"
	"kwbrowse/internal"
	"kwbrowse/internal/api"
	"kwbrowse/internal/catalog"
	"kwbrowse/internal/config"
	"kwbrowse/internal/search"
	"kwbrowse/ports"
	"kwbrowse/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Log    *internal.Logger

	// Data access
	Loader ports.KeywordLoader

	// Browse components
	Catalog   *catalog.Catalog
	Suggester ports.Suggester
}

// New creates a new dependency injection container
func New(cfg *config.Config, log *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		log = internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	}

	c := &Container{
		Config: cfg,
		Log:    log,
	}
	c.initLoader(sheet.NewLoader(cfg.SheetConfig(), log.With("component", "sheet")))
	return c, nil
}

// NewWithLoader builds a container over a caller supplied loader.
func NewWithLoader(cfg *config.Config, loader ports.KeywordLoader, log *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if loader == nil {
		return nil, fmt.Errorf("loader cannot be nil")
	}
	if log == nil {
		log = internal.NewNopLogger()
	}
	c := &Container{Config: cfg, Log: log}
	c.initLoader(loader)
	return c, nil
}

func (c *Container) initLoader(loader ports.KeywordLoader) {
	c.Loader = loader
	c.Catalog = catalog.New(loader, catalog.Config{
		Source:    c.Config.Source.URL,
		ChunkSize: c.Config.Browse.ChunkSize,
		TTL:       c.Config.Browse.CacheTTL,
	}, c.Log.With("component", "catalog"))
	c.Suggester = search.NewFuzzySuggester()
}

// UIApp builds the HTML shell
func (c *Container) UIApp() (*ui.App, error) {
	return ui.NewApp(ui.Config{
		Title:           c.Config.Browse.Title,
		IntroMarkdown:   c.Config.Browse.IntroMarkdown,
		SuggestionLimit: c.Config.Browse.SuggestionLimit,
		CloudEnabled:    c.Config.Cloud.Enabled,
		Cloud:           c.Config.CloudRenderConfig(),
	}, c.Catalog, c.Suggester, c.Log)
}

// APIHandler builds the JSON handler
func (c *Container) APIHandler() *api.KeywordHandler {
	return api.NewKeywordHandler(c.Catalog, c.Suggester, api.HandlerConfig{
		SuggestionLimit: c.Config.Browse.SuggestionLimit,
		CloudEnabled:    c.Config.Cloud.Enabled,
		Cloud:           c.Config.CloudRenderConfig(),
	}, c.Log)
}

// Warm loads the first snapshot so the first request does not pay for the
// fetch. A failure is logged, not fatal: pages render the warning instead.
func (c *Container) Warm(ctx context.Context) {
	if _, err := c.Catalog.Snapshot(ctx); err != nil {
		c.Log.Warn("initial keyword load failed: %v", err)
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	c.Log.Sync()
	return nil
}
