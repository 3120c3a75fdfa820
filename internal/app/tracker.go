package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tourguide/internal/adapters/observability"
	"tourguide/internal/domain"
	"tourguide/internal/geo"
)

// DefaultTrackInterval is used when NewTracker is given a non-positive interval.
const DefaultTrackInterval = 5 * time.Minute

// trackCellPrecision is the geohash length logged per tracked position (~1.2km cells).
const trackCellPrecision = 6

// Tracker periodically tracks every registered user.
type Tracker struct {
	svc      *TourGuideService
	interval time.Duration
	workers  int

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewTracker(svc *TourGuideService, interval time.Duration, workers int) *Tracker {
	if workers <= 0 {
		workers = 1
	}
	if interval <= 0 {
		interval = DefaultTrackInterval
	}
	return &Tracker{
		svc:      svc,
		interval: interval,
		workers:  workers,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run tracks all users immediately and then once per interval until ctx ends or Stop is called.
func (t *Tracker) Run(ctx context.Context) {
	t.started.Store(true)
	defer close(t.done)
	select {
	case <-t.stop:
		return
	default:
	}
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		t.TrackAll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case <-ticker.C:
		}
	}
}

// TrackAll tracks every user once with at most t.workers in parallel.
// Per-user failures are logged and counted; it returns how many users succeeded.
func (t *Tracker) TrackAll(ctx context.Context) int {
	users := t.svc.Users().All()
	start := time.Now()
	log.Debug().Int("users", len(users)).Msg("begin tracker")

	var mu sync.Mutex
	ok := 0
	var g errgroup.Group
	g.SetLimit(t.workers)
	for _, u := range users {
		u := u
		g.Go(func() error {
			v, err := t.svc.TrackUserLocation(ctx, u)
			observability.ObserveTracked(err)
			if err != nil {
				log.Warn().Err(err).Str("user", u.Name).Msg("track failed")
				return nil
			}
			log.Debug().Str("user", u.Name).Str("cell", cell(v.Location)).Msg("tracked")
			mu.Lock()
			ok++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	log.Info().Int("users", len(users)).Int("ok", ok).Dur("dur", time.Since(start)).Msg("tracker pass done")
	return ok
}

// Stop ends Run after the current pass and waits for it to return.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	if t.started.Load() {
		<-t.done
	}
}

// Shutdown ends the loop without cancelling the pass in progress. The scoring pool stops
// accepting work and accepted tasks get until ctx ends to finish. cancelWork, which must
// cancel the ctx given to Run, is called only after that, so it reaches the calls that are
// still outstanding but no scoring task that was allowed to complete.
func (t *Tracker) Shutdown(ctx context.Context, cancelWork context.CancelFunc) error {
	t.stopOnce.Do(func() { close(t.stop) })
	err := t.svc.rewards.pool.Shutdown(ctx)
	if err != nil {
		log.Warn().Err(err).Int("in_flight", t.svc.rewards.pool.InFlight()).Msg("scoring pool did not drain in time")
	}
	cancelWork()
	if t.started.Load() {
		<-t.done
	}
	return err
}

func cell(loc domain.Location) string { return geo.Cell(loc, trackCellPrecision) }
