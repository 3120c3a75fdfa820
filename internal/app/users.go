package app

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"tourguide/internal/domain"
	"tourguide/internal/ledger"
)

// User owns its visit history and reward ledger. Each has its own lock,
// so concurrent work on different users never contends.
type User struct {
	ID   uuid.UUID
	Name string

	mu      sync.RWMutex
	history []domain.VisitedLocation
	rewards *ledger.Ledger
}

func NewUser(id uuid.UUID, name string) *User {
	return &User{ID: id, Name: name, rewards: ledger.New()}
}

func (u *User) AddVisitedLocation(v domain.VisitedLocation) {
	u.mu.Lock()
	u.history = append(u.history, v)
	u.mu.Unlock()
}

// VisitedLocations returns a copy of the history in insertion order.
func (u *User) VisitedLocations() []domain.VisitedLocation {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]domain.VisitedLocation, len(u.history))
	copy(out, u.history)
	return out
}

func (u *User) LastVisitedLocation() (domain.VisitedLocation, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if len(u.history) == 0 {
		return domain.VisitedLocation{}, false
	}
	return u.history[len(u.history)-1], true
}

func (u *User) Rewards() *ledger.Ledger { return u.rewards }

// UserRegistry is the in-memory set of users, keyed by user name.
type UserRegistry struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewUserRegistry() *UserRegistry {
	return &UserRegistry{users: make(map[string]*User)}
}

// Add registers u unless the name is taken and reports whether it did.
func (r *UserRegistry) Add(u *User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Name]; ok {
		return false
	}
	r.users[u.Name] = u
	return true
}

func (r *UserRegistry) Get(name string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// All returns the users sorted by name.
func (r *UserRegistry) All() []*User {
	r.mu.RLock()
	out := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
