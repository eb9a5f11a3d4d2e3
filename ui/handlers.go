package ui

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"kwbrowse/domain/keywords"
	"kwbrowse/internal/catalog"
	"kwbrowse/internal/cloud"
	"kwbrowse/internal/errors"
	"kwbrowse/ports"
	"kwbrowse/ui/templates/fragments"
)

// PageData is what the index page and its fragments render from.
type PageData struct {
	Title        string
	Intro        template.HTML
	Query        string
	Selected     string
	Suggestions  []ports.Suggestion
	NoMatches    bool
	Blocks       []keywords.Block
	ColumnCount  int
	KeywordCount int
	SnapshotID   string
	FetchedAt    time.Time
	CloudEnabled bool
	ShowCloud    bool
	Cloud        *cloud.Cloud
	Error        string
}

// handleIndex renders the search box, suggestions, blocks and optional cloud
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := a.basePage(r)

	snap, err := a.catalog.Snapshot(r.Context())
	if err != nil {
		status := a.loadFailure(&data, err)
		a.renderTemplate(w, status, fragments.IndexPage, data)
		return
	}

	a.fillFromSnapshot(&data, snap)
	if data.ShowCloud {
		c, err := cloud.Build(snap.Table.Joined(), a.config.Cloud)
		if err != nil {
			a.log.Warn("[handleIndex] word cloud: %v", err)
		} else {
			data.Cloud = c
		}
	}

	a.renderTemplate(w, http.StatusOK, fragments.IndexPage, data)
}

// handleSearch returns the suggestion list fragment for HTMX
func (a *App) handleSearch(w http.ResponseWriter, r *http.Request) {
	data := a.basePage(r)

	snap, err := a.catalog.Snapshot(r.Context())
	if err != nil {
		status := a.loadFailure(&data, err)
		a.renderTemplate(w, status, fragments.Warning, data)
		return
	}

	a.suggest(&data, snap)
	a.renderTemplate(w, http.StatusOK, fragments.Suggestions, data)
}

// handleBlock renders a single block, e.g. /blocks/A%20%E2%80%93%20C
func (a *App) handleBlock(w http.ResponseWriter, r *http.Request) {
	label, err := url.PathUnescape(chi.URLParam(r, "label"))
	if err != nil {
		http.Error(w, "bad block label", http.StatusBadRequest)
		return
	}

	data := a.basePage(r)
	snap, err := a.catalog.Snapshot(r.Context())
	if err != nil {
		status := a.loadFailure(&data, err)
		a.renderTemplate(w, status, fragments.Warning, data)
		return
	}

	block, ok := snap.Groups.Block(label)
	if !ok {
		http.Error(w, errors.NotFound("block "+label).Error(), http.StatusNotFound)
		return
	}
	data.Blocks = []keywords.Block{block}
	a.renderTemplate(w, http.StatusOK, fragments.Blocks, data)
}

// handleCloud returns the word cloud fragment
func (a *App) handleCloud(w http.ResponseWriter, r *http.Request) {
	if !a.config.CloudEnabled {
		http.NotFound(w, r)
		return
	}

	data := a.basePage(r)
	snap, err := a.catalog.Snapshot(r.Context())
	if err != nil {
		status := a.loadFailure(&data, err)
		a.renderTemplate(w, status, fragments.Warning, data)
		return
	}

	c, err := cloud.Build(snap.Table.Joined(), a.config.Cloud)
	if err != nil {
		appErr := errors.FromDomain(err)
		http.Error(w, appErr.Error(), errors.HTTPStatus(appErr.Code))
		return
	}
	data.ShowCloud = true
	data.Cloud = c
	a.renderTemplate(w, http.StatusOK, fragments.Cloud, data)
}

// handleRefresh drops the memoized snapshot and reloads the sheet
func (a *App) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if _, err := a.catalog.Refresh(r.Context()); err != nil {
		data := a.basePage(r)
		status := a.loadFailure(&data, err)
		a.renderTemplate(w, status, fragments.Warning, data)
		return
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) basePage(r *http.Request) PageData {
	q := r.URL.Query()
	return PageData{
		Title:        a.config.Title,
		Intro:        a.intro,
		Query:        strings.TrimSpace(q.Get("q")),
		Selected:     q.Get("selected"),
		CloudEnabled: a.config.CloudEnabled,
		ShowCloud:    a.config.CloudEnabled && q.Get("cloud") == "on",
	}
}

func (a *App) fillFromSnapshot(data *PageData, snap *catalog.Snapshot) {
	data.Blocks = snap.Groups.Blocks
	data.ColumnCount = snap.Table.Len()
	data.KeywordCount = snap.Table.TotalKeywords()
	data.SnapshotID = snap.ID.String()
	data.FetchedAt = snap.FetchedAt
	a.suggest(data, snap)
}

func (a *App) suggest(data *PageData, snap *catalog.Snapshot) {
	if data.Query == "" {
		return
	}
	data.Suggestions = a.suggester.Suggest(data.Query, snap.Pool, a.config.SuggestionLimit)
	data.NoMatches = len(data.Suggestions) == 0
	if data.Selected == "" && len(data.Suggestions) > 0 {
		data.Selected = data.Suggestions[0].Keyword
	}
}

// loadFailure records a user-facing warning and returns the status to send.
func (a *App) loadFailure(data *PageData, err error) int {
	appErr := errors.FromDomain(err)
	a.log.Warn("[UI] keyword table unavailable: %v", err)
	switch appErr.Code {
	case errors.CodeDataUnavailable:
		data.Error = "The keyword sheet could not be loaded. Try again in a moment."
	default:
		data.Error = "Something went wrong while preparing the keyword list."
	}
	return errors.HTTPStatus(appErr.Code)
}
