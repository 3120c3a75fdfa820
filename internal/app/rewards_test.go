package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"tourguide/internal/app"
	"tourguide/internal/domain"
	"tourguide/internal/geo"
)

func TestCalculateRewards_EmptyHistory(t *testing.T) {
	h := newHarness(attraction("A", 0, 0))
	u := app.NewUser(uuid.New(), "jon")

	if err := h.rewards.CalculateRewards(context.Background(), u); err != nil {
		t.Fatalf("err: %v", err)
	}
	if u.Rewards().Len() != 0 {
		t.Fatalf("expected empty ledger")
	}
	if h.oracle.calls.Load() != 0 {
		t.Fatalf("expected no oracle calls, got %d", h.oracle.calls.Load())
	}
}

func TestCalculateRewards_UserAtAttraction(t *testing.T) {
	a := attraction("Null Island", 0, 0)
	h := newHarness(a)
	u := app.NewUser(uuid.New(), "jon")
	v := visit(u, 0, 0)

	if !geo.IsNear(v.Location, a, 10) {
		t.Fatalf("expected isNear at distance %v", geo.Distance(v.Location, a.Location))
	}
	if err := h.rewards.CalculateRewards(context.Background(), u); err != nil {
		t.Fatalf("err: %v", err)
	}
	rs := u.Rewards().List()
	if len(rs) != 1 {
		t.Fatalf("expected one reward, got %d", len(rs))
	}
	if rs[0].Attraction.ID != a.ID || rs[0].VisitedLocation != v {
		t.Fatalf("unexpected reward: %+v", rs[0])
	}
	if d := geo.Distance(rs[0].VisitedLocation.Location, rs[0].Attraction.Location); d != 0 {
		t.Fatalf("distance = %v", d)
	}
	if rs[0].Points != expectedPoints(a.ID, u.ID) {
		t.Fatalf("points = %d", rs[0].Points)
	}
}

func TestCalculateRewards_FirstQualifyingVisitWins(t *testing.T) {
	a := attraction("A", 10, 10)
	far := attraction("Far", -40, 100)
	h := newHarness(a, far)
	u := app.NewUser(uuid.New(), "jon")
	visit(u, 50, 50) // not near anything
	first := visit(u, 10.01, 10.01)
	visit(u, 10, 10)

	if err := h.rewards.CalculateRewards(context.Background(), u); err != nil {
		t.Fatalf("err: %v", err)
	}
	rs := u.Rewards().List()
	if len(rs) != 1 {
		t.Fatalf("expected one reward, got %d", len(rs))
	}
	if rs[0].VisitedLocation != first {
		t.Fatalf("expected first qualifying visit, got %+v", rs[0].VisitedLocation)
	}
	if h.oracle.calls.Load() != 1 {
		t.Fatalf("expected one oracle call per qualifying attraction, got %d", h.oracle.calls.Load())
	}
}

func TestCalculateRewards_AlreadyRewardedIsNoop(t *testing.T) {
	a := attraction("A", 0, 0)
	h := newHarness(a)
	u := app.NewUser(uuid.New(), "jon")
	visit(u, 0, 0)

	for i := 0; i < 3; i++ {
		if err := h.rewards.CalculateRewards(context.Background(), u); err != nil {
			t.Fatalf("err: %v", err)
		}
	}
	if u.Rewards().Len() != 1 {
		t.Fatalf("expected one reward, got %d", u.Rewards().Len())
	}
	// still scored every time
	if h.oracle.calls.Load() != 3 {
		t.Fatalf("oracle calls = %d", h.oracle.calls.Load())
	}
}

func TestCalculateRewards_BufferChangeAppliesToNextCall(t *testing.T) {
	a := attraction("A", 0, 0)
	h := newHarness(a)
	u := app.NewUser(uuid.New(), "jon")
	visit(u, 1, 0) // ~69 miles away

	if err := h.rewards.CalculateRewards(context.Background(), u); err != nil {
		t.Fatalf("err: %v", err)
	}
	if u.Rewards().Len() != 0 {
		t.Fatalf("expected no reward at default buffer")
	}

	h.prox.SetBuffer(100)
	if err := h.rewards.CalculateRewards(context.Background(), u); err != nil {
		t.Fatalf("err: %v", err)
	}
	if u.Rewards().Len() != 1 {
		t.Fatalf("expected reward after widening buffer")
	}
}

func TestCalculateRewards_CatalogError(t *testing.T) {
	h := newHarness()
	h.catalog.err = errors.New("catalog down")
	u := app.NewUser(uuid.New(), "jon")
	visit(u, 0, 0)

	err := h.rewards.CalculateRewards(context.Background(), u)
	if !errors.Is(err, h.catalog.err) {
		t.Fatalf("expected catalog error, got %v", err)
	}
}

func TestCalculateRewards_PartialFailureCommitsCompleted(t *testing.T) {
	ok1 := attraction("ok1", 0, 0)
	bad := attraction("bad", 0, 0.01)
	ok2 := attraction("ok2", 0.01, 0)
	h := newHarness(ok1, bad, ok2)
	h.oracle.fail = map[uuid.UUID]error{bad.ID: errOracleDown}
	u := app.NewUser(uuid.New(), "jon")
	visit(u, 0, 0)

	err := h.rewards.CalculateRewards(context.Background(), u)
	if !errors.Is(err, domain.ErrScoringFailure) || !errors.Is(err, errOracleDown) {
		t.Fatalf("expected scoring failure, got %v", err)
	}
	var se *domain.ScoringError
	if !errors.As(err, &se) || se.AttractionID != bad.ID || se.UserID != u.ID {
		t.Fatalf("unexpected scoring error: %+v", se)
	}

	if u.Rewards().Len() != 2 || !u.Rewards().Has(ok1.ID) || !u.Rewards().Has(ok2.ID) || u.Rewards().Has(bad.ID) {
		t.Fatalf("expected the two completed rewards, got %+v", u.Rewards().List())
	}

	// once the oracle recovers the missing reward is added without duplicating the others
	h.oracle.fail = nil
	if err := h.rewards.CalculateRewards(context.Background(), u); err != nil {
		t.Fatalf("err: %v", err)
	}
	if u.Rewards().Len() != 3 {
		t.Fatalf("expected 3 rewards, got %d", u.Rewards().Len())
	}
}

func TestCalculateRewards_ConcurrentCallsNoDuplicates(t *testing.T) {
	var attractions []domain.Attraction
	for i := 0; i < 10; i++ {
		attractions = append(attractions, attraction("near", 0, float64(i)*0.01))
	}
	for i := 0; i < 10; i++ {
		attractions = append(attractions, attraction("far", 45, float64(i)))
	}
	h := newHarness(attractions...)
	u := app.NewUser(uuid.New(), "jon")
	visit(u, 0, 0)
	visit(u, 0, 0.05)

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- h.rewards.CalculateRewards(context.Background(), u)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("err: %v", err)
		}
	}

	rs := u.Rewards().List()
	if len(rs) != 10 {
		t.Fatalf("expected 10 rewards, got %d", len(rs))
	}
	seen := map[uuid.UUID]bool{}
	for _, r := range rs {
		if seen[r.Attraction.ID] {
			t.Fatalf("duplicate reward for %s", r.Attraction.ID)
		}
		seen[r.Attraction.ID] = true
		if r.Attraction.Name != "near" {
			t.Fatalf("unexpected reward for %s", r.Attraction.Name)
		}
	}
}

func TestCalculateRewards_ConcurrentUsers(t *testing.T) {
	a := attraction("A", 0, 0)
	h := newHarness(a)
	users := make([]*app.User, 50)
	for i := range users {
		users[i] = app.NewUser(uuid.New(), "u")
		visit(users[i], 0, 0)
	}

	var wg sync.WaitGroup
	for _, u := range users {
		u := u
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.rewards.CalculateRewards(context.Background(), u); err != nil {
				t.Errorf("err: %v", err)
			}
		}()
	}
	wg.Wait()

	for _, u := range users {
		if u.Rewards().Len() != 1 || u.Rewards().TotalPoints() != expectedPoints(a.ID, u.ID) {
			t.Fatalf("user %s: %+v", u.ID, u.Rewards().List())
		}
	}
}

func TestCalculateRewards_RejectedAfterShutdown(t *testing.T) {
	h := newHarness(attraction("A", 0, 0))
	u := app.NewUser(uuid.New(), "jon")
	visit(u, 0, 0)

	if err := h.pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := h.rewards.CalculateRewards(context.Background(), u); !errors.Is(err, domain.ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
	if h.oracle.calls.Load() != 0 {
		t.Fatalf("expected no oracle calls")
	}
}
