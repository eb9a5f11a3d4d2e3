package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"kwbrowse/domain/core"
	"kwbrowse/domain/keywords"
	"kwbrowse/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	calls atomic.Int32
	delay time.Duration
	fail  atomic.Bool
}

func (s *stubLoader) LoadKeywords(ctx context.Context, source string) (*keywords.KeywordTable, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.fail.Load() {
		return nil, core.NewDataUnavailableError(source, errors.New("offline"))
	}
	return keywords.NewKeywordTable([]keywords.Column{
		{Label: "A", Keywords: []string{"a1"}},
		{Label: "B", Keywords: []string{"b1", "b2"}},
		{Label: "C"},
		{Label: "D", Keywords: []string{"d1"}},
	}), nil
}

func TestSnapshotDerivesEverything(t *testing.T) {
	c := New(&stubLoader{}, Config{Source: "mem://", ChunkSize: 3, TTL: time.Minute}, internal.NewNopLogger())
	snap, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	assert.False(t, snap.ID.String() == "")
	assert.Equal(t, []string{"a1", "b1", "b2", "d1"}, snap.Pool)
	require.Len(t, snap.Groups.Blocks, 2)
	assert.Equal(t, "A – C", snap.Groups.Blocks[0].Label)
	assert.Len(t, snap.Options, 4+4)
	assert.False(t, snap.Fingerprint.IsEmpty())
}

func TestSnapshotMemoizesWithinTTL(t *testing.T) {
	loader := &stubLoader{}
	c := New(loader, Config{TTL: time.Minute}, internal.NewNopLogger())
	now := time.Now()
	c.now = func() time.Time { return now }

	first, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), loader.calls.Load())

	now = now.Add(2 * time.Minute)
	third, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
	assert.Equal(t, first.Fingerprint, third.Fingerprint)
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestSnapshotZeroTTLAlwaysReloads(t *testing.T) {
	loader := &stubLoader{}
	c := New(loader, Config{}, internal.NewNopLogger())
	for i := 0; i < 3; i++ {
		_, err := c.Snapshot(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), loader.calls.Load())
	assert.Equal(t, keywords.DefaultChunkSize, c.ChunkSize())
}

func TestConcurrentReloadsShareOneFetch(t *testing.T) {
	loader := &stubLoader{delay: 50 * time.Millisecond}
	c := New(loader, Config{TTL: time.Minute}, internal.NewNopLogger())

	var wg sync.WaitGroup
	ids := make([]core.SnapshotID, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := c.Refresh(context.Background())
			if assert.NoError(t, err) {
				ids[i] = snap.ID
			}
		}(i)
	}
	wg.Wait()

	assert.Less(t, loader.calls.Load(), int32(len(ids)))
}

func TestFailedReloadKeepsPreviousSnapshot(t *testing.T) {
	loader := &stubLoader{}
	c := New(loader, Config{}, internal.NewNopLogger())

	good, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	loader.fail.Store(true)
	snap, err := c.Refresh(context.Background())
	assert.Nil(t, snap)
	assert.True(t, core.IsDataUnavailable(err))
	assert.Same(t, good, c.Current())
}

func TestInvalidChunkSizeSurfaces(t *testing.T) {
	c := New(&stubLoader{}, Config{ChunkSize: -2}, internal.NewNopLogger())
	_, err := c.Snapshot(context.Background())
	assert.True(t, core.IsInvalidArgument(err))
}

func TestSharedReloadSurvivesFirstCallerCancel(t *testing.T) {
	loader := &stubLoader{delay: 100 * time.Millisecond}
	c := New(loader, Config{TTL: time.Minute}, internal.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Snapshot(ctx)
		firstErr <- err
	}()

	time.Sleep(5 * time.Millisecond)
	secondDone := make(chan struct{})
	var snap *Snapshot
	var err error
	go func() {
		defer close(secondDone)
		snap, err = c.Snapshot(context.Background())
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	<-secondDone
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int32(1), loader.calls.Load())
	assert.Same(t, snap, c.Current())
}

func TestSnapshotReturnsOnCallerCancel(t *testing.T) {
	loader := &stubLoader{delay: 200 * time.Millisecond}
	c := New(loader, Config{TTL: time.Minute}, internal.NewNopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := c.Snapshot(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}
