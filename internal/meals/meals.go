// Package meals is the reusable meal library: named per-100g nutritional
// profiles in a user-curated order.
package meals

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/caloq-app/caloq/internal/logger"
	"github.com/caloq-app/caloq/internal/nutrition"
	"github.com/caloq-app/caloq/internal/storage"
)

// Meal is a library entry as a flat object: the name plus its per-100g
// profile.
type Meal struct {
	Name string
	nutrition.Vector
}

// Service manages the meal library. Mutations write the full mapping as one
// blob and then reload it, asserting read-after-write against the store.
type Service struct {
	mu      sync.Mutex
	store   storage.Store
	entries *ProfileMap
}

// NewService loads the persisted library. A fresh install starts with the
// built-in Oatmeal profile.
func NewService(ctx context.Context, store storage.Store) *Service {
	s := &Service{store: store, entries: defaultLibrary()}
	s.reload(ctx)
	return s
}

func defaultLibrary() *ProfileMap {
	p := NewProfileMap()
	p.Set("Oatmeal", nutrition.Vector{Kcal: 372, Protein: 14, Sugar: 1, Fat: 7, Fiber: 10, Carbs: 59})
	return p
}

// reload replaces the in-memory mapping with the persisted one. Missing or
// corrupt blobs keep the current state.
func (s *Service) reload(ctx context.Context) {
	value, ok, err := s.store.Get(ctx, storage.KeyMeals)
	if err != nil {
		logger.Warn("Failed to read meal library", "error", err)
		return
	}
	if !ok {
		return
	}

	loaded := NewProfileMap()
	if err := json.Unmarshal([]byte(value), loaded); err != nil {
		logger.Debug("Corrupt meal library blob, keeping current state", "error", err)
		return
	}
	s.entries = loaded
}

// persist writes the full mapping as a single blob. Failures are swallowed;
// the optimistic in-memory state stands until the next successful write.
func (s *Service) persist(ctx context.Context) {
	data, err := json.Marshal(s.entries)
	if err != nil {
		logger.Warn("Failed to encode meal library", "error", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyMeals, string(data)); err != nil {
		logger.Warn("Failed to persist meal library", "error", err)
	}
}

// Entries returns the library in display order.
func (s *Service) Entries() []Meal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Meal, 0, s.entries.Len())
	for _, name := range s.entries.Names() {
		profile, _ := s.entries.Get(name)
		out = append(out, Meal{Name: name, Vector: profile})
	}
	return out
}

// Get returns the per-100g profile stored under name.
func (s *Service) Get(name string) (nutrition.Vector, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Get(name)
}

// Snapshot returns a copy of the ordered mapping, e.g. for export.
func (s *Service) Snapshot() *ProfileMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := NewProfileMap()
	for _, name := range s.entries.Names() {
		profile, _ := s.entries.Get(name)
		out.Set(name, profile)
	}
	return out
}

// Add upserts a meal: an existing name gets its profile overwritten in place,
// a new name is appended. Callers validate that the name is non-empty.
func (s *Service) Add(ctx context.Context, meal Meal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.Set(meal.Name, meal.Vector)
	s.persist(ctx)
	s.reload(ctx)
}

// AddMany inserts meals in order, skipping names that already exist. Unlike
// Add this never overwrites: batch import must not clobber local data.
func (s *Service) AddMany(ctx context.Context, toAdd []Meal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, meal := range toAdd {
		if _, exists := s.entries.Get(meal.Name); exists {
			continue
		}
		s.entries.Set(meal.Name, meal.Vector)
	}
	s.persist(ctx)
	s.reload(ctx)
}

// Remove deletes a meal by name, preserving the order of the rest.
func (s *Service) Remove(ctx context.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.Delete(name)
	s.persist(ctx)
	s.reload(ctx)
}

// MoveUp swaps a meal with its predecessor in display order. No-op for the
// first entry or an unknown name.
func (s *Service) MoveUp(ctx context.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.MoveUp(name)
	s.persist(ctx)
	s.reload(ctx)
}
