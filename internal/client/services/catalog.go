// Package services contains application services for the GeoKeeper client.
// This file defines the catalog service: the sync state machine deciding
// between cache reads and origin refreshes, and the reset/recovery path.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/client/client"
	"github.com/dmitrijs2005/geokeeper/internal/client/models"
	"github.com/dmitrijs2005/geokeeper/internal/client/repositories/countries"
	"github.com/dmitrijs2005/geokeeper/internal/client/repositories/syncmark"
	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/dmitrijs2005/geokeeper/internal/logging"
	"golang.org/x/sync/singleflight"
)

// cacheTTL is how long a successful sync keeps serving reads from the local
// cache. Deliberately a constant: the freshness policy must not drift
// between installs.
const cacheTTL = 10 * time.Minute

// refreshKey collapses concurrent refreshes into one singleflight call.
const refreshKey = "refresh"

// CatalogService orchestrates the country catalog between the origin, the
// local cache and the freshness marker, and publishes every outcome to the
// state feed.
//
// Contract:
//   - Sync: serve from cache while the marker is younger than the TTL,
//     otherwise (or when forced, or when never synced) refresh from the
//     origin. Outcomes are published, not returned.
//   - ResetAndResync: drop cache and marker, publish the empty state, then
//     force a refresh.
//   - GetByID: single-row detail lookup; a missing id surfaces as
//     common.ErrorNotFound.
//
// All methods honor context cancellation.
type CatalogService interface {
	Sync(ctx context.Context, forceRefresh bool)
	ResetAndResync(ctx context.Context)
	GetByID(ctx context.Context, id int64) (*models.Country, error)
}

type catalogService struct {
	client    client.Client
	countries countries.Repository
	marks     syncmark.Repository
	feed      *StateFeed
	log       logging.Logger

	// group deduplicates concurrent refreshes; commitMu serializes the
	// replace-and-mark commit against other commits and against resets.
	// Cache-hit reads take neither.
	group    singleflight.Group
	commitMu sync.Mutex

	now func() time.Time
}

// NewCatalogService constructs a CatalogService bound to the given origin
// client, repositories and feed. The feed must be the same instance the
// observers subscribe to.
func NewCatalogService(
	apiClient client.Client,
	countriesRepo countries.Repository,
	marks syncmark.Repository,
	feed *StateFeed,
	log logging.Logger,
) CatalogService {
	return &catalogService{
		client:    apiClient,
		countries: countriesRepo,
		marks:     marks,
		feed:      feed,
		log:       log,
		now:       time.Now,
	}
}

// Sync decides between a cache read and a refresh.
//
// A cache hit requires all three: a prior successful sync, a marker younger
// than the TTL, and no force flag. The hit path never touches the network
// and is not blocked by an in-flight refresh. When the cache turns out to
// be unreadable on the hit path, the service falls back to a refresh
// instead of surfacing the storage error.
func (s *catalogService) Sync(ctx context.Context, forceRefresh bool) {
	last := s.marks.LastSyncTime(ctx)
	fresh := !last.IsZero() && s.now().Sub(last) < cacheTTL

	if fresh && !forceRefresh {
		data, err := s.countries.GetAll(ctx)
		if err == nil {
			s.log.Debug(ctx, "serving catalog from cache", "rows", len(data), "age", s.now().Sub(last))
			s.feed.publish(models.SyncState{Data: data, Loading: false, Err: false})
			return
		}
		s.log.Warn(ctx, "cache read failed, falling back to refresh", "error", err)
	}

	s.refresh(ctx)
}

// ResetAndResync clears the cache and the freshness marker under the commit
// lock, publishes the transient empty state, then forces a refresh. If the
// refresh fails the error state is published as usual; there is no retry
// loop.
func (s *catalogService) ResetAndResync(ctx context.Context) {
	s.commitMu.Lock()
	err := s.countries.Clear(ctx)
	if err == nil {
		err = s.marks.Clear(ctx)
	}
	s.commitMu.Unlock()

	if err != nil {
		s.log.Error(ctx, "reset failed", "error", err)
		s.feed.publish(models.SyncState{Data: s.feed.Snapshot().Data, Loading: false, Err: true})
		return
	}

	// the empty state is observable before the forced refresh lands
	s.feed.publish(models.SyncState{Data: []models.Country{}, Loading: false, Err: false})

	s.refresh(ctx)
}

// GetByID reads a single row through the coordinator boundary.
func (s *catalogService) GetByID(ctx context.Context, id int64) (*models.Country, error) {
	c, err := s.countries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error reading country: %w", err)
	}
	return c, nil
}

// refresh publishes the loading state and runs the fetch-and-commit cycle.
// Concurrent callers share one in-flight cycle through the singleflight
// group, so two overlapping syncs produce a single fetch and a single
// commit. On failure the previous data survives and only the error flag is
// raised. A canceled context publishes nothing: the session is gone and the
// feed has been closed with it.
func (s *catalogService) refresh(ctx context.Context) {
	s.feed.publish(models.SyncState{Data: s.feed.Snapshot().Data, Loading: true, Err: false})

	_, err, shared := s.group.Do(refreshKey, func() (any, error) {
		return nil, s.doRefresh(ctx)
	})
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}

	s.log.Error(ctx, "refresh failed", "error", err, "shared", shared)
	s.feed.publish(models.SyncState{Data: s.feed.Snapshot().Data, Loading: false, Err: true})
}

// doRefresh is the body of one refresh cycle: fetch, then commit under the
// lock, then publish. Only the commit phase holds the lock; the fetch does
// not block cache readers.
func (s *catalogService) doRefresh(ctx context.Context) error {
	fetched, err := s.client.FetchAll(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	saved, err := s.countries.ReplaceAll(ctx, fetched)
	if err != nil {
		return fmt.Errorf("error replacing cache: %w", err)
	}
	if err := s.marks.RecordSyncTime(ctx, s.now()); err != nil {
		return fmt.Errorf("error recording sync time: %w", err)
	}

	s.feed.publish(models.SyncState{Data: saved, Loading: false, Err: false})
	return nil
}
