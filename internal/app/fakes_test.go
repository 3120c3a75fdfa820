package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"tourguide/internal/app"
	"tourguide/internal/domain"
	"tourguide/internal/geo"
)

// ---- fakes ----

type fakeOracle struct {
	calls atomic.Int64
	delay time.Duration
	fail  map[uuid.UUID]error
}

// points are derived from the ids so repeated calls agree
func expectedPoints(attractionID, userID uuid.UUID) int {
	n := 0
	for i := range attractionID {
		n += int(attractionID[i]) * int(userID[i]+1)
	}
	return n % 1000
}

func (o *fakeOracle) PointsFor(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
	o.calls.Add(1)
	if o.delay > 0 {
		select {
		case <-time.After(o.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if err, ok := o.fail[attractionID]; ok {
		return 0, err
	}
	return expectedPoints(attractionID, userID), nil
}

type fakeCatalog struct {
	attractions []domain.Attraction
	err         error
	calls       atomic.Int64
}

func (c *fakeCatalog) ListAttractions(ctx context.Context) ([]domain.Attraction, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.attractions, nil
}

type fakeGPS struct {
	mu   sync.Mutex
	locs map[uuid.UUID]domain.Location
	err  error
}

func (g *fakeGPS) CurrentLocation(ctx context.Context, userID uuid.UUID) (domain.VisitedLocation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return domain.VisitedLocation{}, g.err
	}
	return domain.VisitedLocation{UserID: userID, Location: g.locs[userID], TimeVisited: time.Now()}, nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	sets  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// ---- helpers ----

var errOracleDown = errors.New("oracle down")

func attraction(name string, lat, lon float64) domain.Attraction {
	return domain.Attraction{ID: uuid.New(), Name: name, Location: domain.Location{Latitude: lat, Longitude: lon}}
}

func visit(u *app.User, lat, lon float64) domain.VisitedLocation {
	v := domain.VisitedLocation{UserID: u.ID, Location: domain.Location{Latitude: lat, Longitude: lon}, TimeVisited: time.Now()}
	u.AddVisitedLocation(v)
	return v
}

type harness struct {
	oracle  *fakeOracle
	catalog *fakeCatalog
	prox    *geo.Proximity
	pool    *app.WorkerPool
	rewards *app.RewardService
	nearby  *app.NearbyService
}

func newHarness(attractions ...domain.Attraction) *harness {
	h := &harness{
		oracle:  &fakeOracle{},
		catalog: &fakeCatalog{attractions: attractions},
		prox:    geo.NewProximity(geo.DefaultProximityBuffer, geo.DefaultAttractionProximityRange),
		pool:    app.NewWorkerPool(8),
	}
	scorer := app.NewRewardScorer(h.oracle)
	h.rewards = app.NewRewardService(h.catalog, scorer, h.prox, h.pool)
	h.nearby = app.NewNearbyService(scorer, h.prox, h.pool)
	return h
}
