package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tourguide/internal/domain"
)

// SyncResult counts what a catalog sync did.
type SyncResult struct {
	Fetched  int
	Upserted int
	Skipped  int
	Failed   int
}

// CatalogSyncService copies the attraction catalog from a source into a writable store.
type CatalogSyncService struct {
	source  domain.AttractionCatalog
	store   domain.AttractionWriter
	cached  *CachedCatalog
	workers int
}

// cached may be nil; when set its entry is dropped after a sync that wrote anything.
func NewCatalogSyncService(src domain.AttractionCatalog, dst domain.AttractionWriter, cached *CachedCatalog, workers int) *CatalogSyncService {
	if workers <= 0 {
		workers = 1
	}
	return &CatalogSyncService{source: src, store: dst, cached: cached, workers: workers}
}

// Sync upserts every attraction from the source. Invalid rows are skipped and per-row
// write failures are counted; only a failed fetch or a cancelled ctx fails the sync.
func (s *CatalogSyncService) Sync(ctx context.Context) (SyncResult, error) {
	attractions, err := s.source.ListAttractions(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) {
			return SyncResult{}, fmt.Errorf("catalog source rejected credentials: %w", err)
		}
		return SyncResult{}, fmt.Errorf("list source attractions: %w", err)
	}

	res := SyncResult{Fetched: len(attractions)}
	var upserted, skipped, failed atomic.Int64

	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup
	var acquireErr error

	for _, a := range attractions {
		if err := a.Location.Validate(); err != nil {
			log.Warn().Str("attraction", a.Name).Err(err).Msg("skipping attraction")
			skipped.Add(1)
			continue
		}
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}
		wg.Add(1)
		go func(a domain.Attraction) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.store.UpsertAttraction(ctx, a); err != nil {
				log.Warn().Str("attraction", a.ID.String()).Err(err).Msg("upsert failed")
				failed.Add(1)
				return
			}
			upserted.Add(1)
		}(a)
	}
	wg.Wait()

	res = s.result(res, &upserted, &skipped, &failed)
	if s.cached != nil && res.Upserted > 0 {
		// rows are written even when the sync was cut short
		if err := s.cached.Invalidate(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("catalog cache invalidation failed")
		}
	}
	return res, acquireErr
}

func (s *CatalogSyncService) result(r SyncResult, up, sk, fa *atomic.Int64) SyncResult {
	r.Upserted = int(up.Load())
	r.Skipped = int(sk.Load())
	r.Failed = int(fa.Load())
	return r
}
