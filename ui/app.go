package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"kwbrowse/internal"
	"kwbrowse/internal/catalog"
	"kwbrowse/internal/cloud"
	"kwbrowse/ports"
	"kwbrowse/ui/templates/fragments"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// App represents the UI application
type App struct {
	router    *chi.Mux
	catalog   *catalog.Catalog
	suggester ports.Suggester
	templates *template.Template
	config    Config
	intro     template.HTML
	log       *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Title           string
	IntroMarkdown   string
	SuggestionLimit int
	CloudEnabled    bool
	Cloud           cloud.Config
}

// NewApp creates a new UI application
func NewApp(config Config, cat *catalog.Catalog, suggester ports.Suggester, log *internal.Logger) (*App, error) {
	if log == nil {
		log = internal.DefaultLogger
	}
	if config.Title == "" {
		config.Title = "Keyword Explorer"
	}
	if config.IntroMarkdown == "" {
		config.IntroMarkdown = defaultIntro
	}

	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	for _, name := range fragments.GetAllTemplatePaths() {
		if templates.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s is missing", name)
		}
	}

	app := &App{
		router:    chi.NewRouter(),
		catalog:   cat,
		suggester: suggester,
		templates: templates,
		config:    config,
		intro:     renderMarkdown(config.IntroMarkdown),
		log:       log,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		a.log.Error("[setupRoutes] static filesystem: %v", err)
	} else {
		a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	a.router.Get("/", a.handleIndex)
	a.router.Get("/search", a.handleSearch)
	a.router.Get("/blocks/{label}", a.handleBlock)
	a.router.Get("/cloud", a.handleCloud)
	a.router.Post("/refresh", a.handleRefresh)
}

// Handler exposes the router, e.g. for httptest.
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server and stops it when ctx is done
func (a *App) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting keyword browser UI on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// HTMX helpers
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
