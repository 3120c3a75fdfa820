// Package ledger keeps the rewards a single user has earned.
package ledger

import (
	"sync"

	"github.com/google/uuid"

	"tourguide/internal/domain"
)

// Ledger holds at most one reward per attraction. Safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	index   map[uuid.UUID]struct{}
	rewards []domain.Reward
	total   int
}

func New() *Ledger {
	return &Ledger{index: make(map[uuid.UUID]struct{})}
}

// Add inserts r unless the ledger already has a reward for r.Attraction.
// It reports whether r was inserted.
func (l *Ledger) Add(r domain.Reward) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.index[r.Attraction.ID]; ok {
		return false
	}
	l.index[r.Attraction.ID] = struct{}{}
	l.rewards = append(l.rewards, r)
	l.total += r.Points
	return true
}

func (l *Ledger) Has(attractionID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.index[attractionID]
	return ok
}

// List returns a snapshot in insertion order.
func (l *Ledger) List() []domain.Reward {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Reward, len(l.rewards))
	copy(out, l.rewards)
	return out
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rewards)
}

func (l *Ledger) TotalPoints() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
