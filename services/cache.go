package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/repositories"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Cache serves reads from one snapshot of the whole entity store. Mutations
// must call Invalidate before they return; a load that overlaps an
// invalidation is handed to its waiters but never kept.
type Cache struct {
	store repositories.Store

	mu    sync.Mutex
	gen   uint64
	snap  *models.Snapshot
	loads singleflight.Group
}

func NewCache(store repositories.Store) *Cache {
	return &Cache{store: store}
}

// Snapshot returns the cached entity set, loading it if needed. The result is
// shared between callers and must not be modified.
func (c *Cache) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	c.mu.Lock()
	if c.snap != nil {
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.loads.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		// waiters share this load, so one caller's cancellation must not fail the rest
		snap, err := loadSnapshot(context.WithoutCancel(ctx), c.store, 5)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.snap = snap
		}
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return v.(*models.Snapshot), nil
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.snap = nil
	c.mu.Unlock()
}

// loadSnapshot reads the five collections with at most parallelism queries in
// flight. Use 1 inside a transaction: a *sql.Tx runs one query at a time.
func loadSnapshot(ctx context.Context, store repositories.Store, parallelism int) (*models.Snapshot, error) {
	snap := &models.Snapshot{TakenAt: time.Now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	g.Go(func() (err error) {
		snap.Players, err = store.Players().List(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Groups, err = store.Groups().List(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.PlayerGroups, err = store.Groups().ListMemberships(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Matches, err = store.Matches().List(gctx, models.MatchFilter{})
		return err
	})
	g.Go(func() (err error) {
		snap.Scores, err = store.Scores().List(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
