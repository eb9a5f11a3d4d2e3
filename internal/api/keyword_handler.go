package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kwbrowse/domain/keywords"
	"kwbrowse/internal"
	"kwbrowse/internal/catalog"
	"kwbrowse/internal/cloud"
	"kwbrowse/internal/errors"
	"kwbrowse/internal/profiling"
	"kwbrowse/ports"
)

// KeywordHandler serves the keyword table and its derived views as JSON
type KeywordHandler struct {
	catalog         *catalog.Catalog
	suggester       ports.Suggester
	suggestionLimit int
	cloudEnabled    bool
	cloudConfig     cloud.Config
	log             *internal.Logger
}

// HandlerConfig holds the knobs the handler needs
type HandlerConfig struct {
	SuggestionLimit int
	CloudEnabled    bool
	Cloud           cloud.Config
}

// NewKeywordHandler creates a new keyword handler
func NewKeywordHandler(cat *catalog.Catalog, suggester ports.Suggester, config HandlerConfig, log *internal.Logger) *KeywordHandler {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &KeywordHandler{
		catalog:         cat,
		suggester:       suggester,
		suggestionLimit: config.SuggestionLimit,
		cloudEnabled:    config.CloudEnabled,
		cloudConfig:     config.Cloud,
		log:             log,
	}
}

// SnapshotMeta describes the snapshot a response was computed from
type SnapshotMeta struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
	Columns   int       `json:"columns"`
	Keywords  int       `json:"keywords"`
}

// Register mounts the routes on a gin router group
func (h *KeywordHandler) Register(r gin.IRouter) {
	r.GET("/keywords", h.GetKeywords)
	r.GET("/groups", h.GetGroups)
	r.GET("/options", h.GetOptions)
	r.GET("/suggest", h.GetSuggestions)
	r.GET("/cloud", h.GetCloud)
	r.GET("/profile", h.GetProfile)
	r.POST("/refresh", h.PostRefresh)
}

// GetKeywords returns the cleaned table, columns in order
func (h *KeywordHandler) GetKeywords(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshot": meta(snap),
		"columns":  snap.Table.Columns(),
	})
}

// GetGroups returns the block partition; ?chunk=N overrides the configured size
func (h *KeywordHandler) GetGroups(c *gin.Context) {
	chunk := h.catalog.ChunkSize()
	if raw := c.Query("chunk"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, errors.New(errors.CodeInvalidArgument, "chunk must be an integer"))
			return
		}
		chunk = n
	}

	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	groups := snap.Groups
	if chunk != h.catalog.ChunkSize() {
		var err error
		groups, err = keywords.GroupColumns(snap.Table, chunk)
		if err != nil {
			h.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshot":   meta(snap),
		"chunk_size": chunk,
		"blocks":     groups.Blocks,
	})
}

// GetOptions returns the flat option list; ?format=text collapses headings
// to "--- X ---" markers
func (h *KeywordHandler) GetOptions(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	if c.Query("format") == "text" {
		c.JSON(http.StatusOK, gin.H{"snapshot": meta(snap), "options": snap.Options.Strings()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": meta(snap), "options": snap.Options})
}

// GetSuggestions returns "did you mean" candidates for ?q=
func (h *KeywordHandler) GetSuggestions(c *gin.Context) {
	limit := h.suggestionLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.fail(c, errors.New(errors.CodeInvalidArgument, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	query := c.Query("q")
	suggestions := h.suggester.Suggest(query, snap.Pool, limit)
	if suggestions == nil {
		suggestions = []ports.Suggestion{}
	}
	c.JSON(http.StatusOK, gin.H{
		"query":       query,
		"suggestions": suggestions,
	})
}

// GetCloud returns the word cloud render model
func (h *KeywordHandler) GetCloud(c *gin.Context) {
	if !h.cloudEnabled {
		h.fail(c, errors.NotFound("word cloud"))
		return
	}
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	wc, err := cloud.Build(snap.Table.Joined(), h.cloudConfig)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, wc)
}

// GetProfile returns how keywords are spread across columns
func (h *KeywordHandler) GetProfile(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	profile, err := profiling.ProfileTable(snap.Table)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": meta(snap), "profile": profile})
}

// PostRefresh forces a reload of the sheet
func (h *KeywordHandler) PostRefresh(c *gin.Context) {
	snap, err := h.catalog.Refresh(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": meta(snap)})
}

func (h *KeywordHandler) snapshot(c *gin.Context) (*catalog.Snapshot, bool) {
	snap, err := h.catalog.Snapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	// weak: snapshot metadata may change while the keywords do not
	etag := `W/"` + snap.Fingerprint.Short() + `"`
	c.Header("ETag", etag)
	if etagMatches(c.GetHeader("If-None-Match"), etag) {
		c.AbortWithStatus(http.StatusNotModified)
		return nil, false
	}
	return snap, true
}

// etagMatches applies the weak comparison of If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}

func (h *KeywordHandler) fail(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	status := errors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		h.log.Warn("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"code": appErr.Code, "error": appErr.Error()})
}

func meta(snap *catalog.Snapshot) SnapshotMeta {
	return SnapshotMeta{
		ID:        snap.ID.String(),
		Source:    snap.Source,
		FetchedAt: snap.FetchedAt,
		Columns:   snap.Table.Len(),
		Keywords:  snap.Table.TotalKeywords(),
	}
}
