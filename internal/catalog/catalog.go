package catalog

import (
	"context"
	"sync"
	"time"

	"kwbrowse/domain/core"
	"kwbrowse/domain/keywords"
	"kwbrowse/internal"
	"kwbrowse/ports"

	"golang.org/x/sync/singleflight"
)

// Snapshot is one fully derived load: table, blocks, options and pool.
// Nothing in it is mutated after creation.
type Snapshot struct {
	ID          core.SnapshotID
	Source      string
	FetchedAt   time.Time
	Fingerprint core.Hash
	Table       *keywords.KeywordTable
	Groups      *keywords.GroupedTable
	Options     keywords.OptionList
	Pool        []string
}

// Config controls the memoized pipeline
type Config struct {
	Source    string
	ChunkSize int
	TTL       time.Duration // 0 disables memoization
}

// Catalog memoizes the fetch-clean-group pipeline for the presentation
// shells. Concurrent reloads share a single fetch. A failed reload leaves the
// previous snapshot in place.
type Catalog struct {
	loader ports.KeywordLoader
	config Config
	log    *internal.Logger
	now    func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	current *Snapshot
}

// New creates a catalog
func New(loader ports.KeywordLoader, config Config, log *internal.Logger) *Catalog {
	if log == nil {
		log = internal.DefaultLogger
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = keywords.DefaultChunkSize
	}
	return &Catalog{loader: loader, config: config, log: log, now: time.Now}
}

// ChunkSize returns the configured block width.
func (c *Catalog) ChunkSize() int {
	return c.config.ChunkSize
}

// Snapshot returns the memoized snapshot while fresh, otherwise reloads.
func (c *Catalog) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := c.fresh(); snap != nil {
		return snap, nil
	}
	return c.reload(ctx)
}

// Refresh reloads regardless of age.
func (c *Catalog) Refresh(ctx context.Context) (*Snapshot, error) {
	return c.reload(ctx)
}

// Current returns the last good snapshot without loading, or nil.
func (c *Catalog) Current() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Catalog) fresh() *Snapshot {
	if c.config.TTL <= 0 {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil || c.now().Sub(c.current.FetchedAt) >= c.config.TTL {
		return nil
	}
	return c.current
}

// reload runs one shared build detached from any single caller's
// cancellation; the fetch timeout bounds it. Each caller stops waiting when
// its own ctx is done.
func (c *Catalog) reload(ctx context.Context) (*Snapshot, error) {
	ch := c.group.DoChan("snapshot", func() (interface{}, error) {
		return c.build(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.log.Debug("[Catalog] reload shared between callers")
		}
		return res.Val.(*Snapshot), nil
	}
}

func (c *Catalog) build(ctx context.Context) (*Snapshot, error) {
	table, err := c.loader.LoadKeywords(ctx, c.config.Source)
	if err != nil {
		return nil, err
	}
	groups, err := keywords.GroupColumns(table, c.config.ChunkSize)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:          core.NewSnapshotID(),
		Source:      c.config.Source,
		FetchedAt:   c.now(),
		Fingerprint: fingerprint(table),
		Table:       table,
		Groups:      groups,
		Options:     keywords.BuildOptions(table),
		Pool:        table.All(),
	}

	c.mu.Lock()
	c.current = snap
	c.mu.Unlock()

	c.log.Info("[Catalog] snapshot %s: %d columns in %d blocks", snap.ID, table.Len(), len(groups.Blocks))
	return snap, nil
}

func fingerprint(table *keywords.KeywordTable) core.Hash {
	parts := make([][]string, 0, table.Len()+1)
	parts = append(parts, table.Labels())
	for _, col := range table.Columns() {
		parts = append(parts, col.Keywords)
	}
	return core.ComputeContentHash(parts...)
}
