// Package preferences holds the display preferences: which nutritional
// metrics are shown, and whether numbers are masked.
package preferences

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/caloq-app/caloq/internal/logger"
	"github.com/caloq-app/caloq/internal/nutrition"
	"github.com/caloq-app/caloq/internal/storage"
)

// defaultEnabled is the enabled set used until the user changes anything,
// and the fallback when the persisted blob is missing or corrupt.
var defaultEnabled = []nutrition.Metric{
	nutrition.MetricKcal,
	nutrition.MetricProtein,
	nutrition.MetricSugar,
}

// Service manages the enabled-metric subset. The set is always unique and
// kept in canonical registry order.
type Service struct {
	mu      sync.Mutex
	store   storage.Store
	enabled []nutrition.Metric
}

// NewService loads the persisted preference, falling back to the default set.
func NewService(ctx context.Context, store storage.Store) *Service {
	s := &Service{store: store}
	s.enabled = s.load(ctx)
	return s
}

func (s *Service) load(ctx context.Context) []nutrition.Metric {
	value, ok, err := s.store.Get(ctx, storage.KeyPreferences)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("Failed to read metric preferences, using defaults", "error", err)
		}
		return append([]nutrition.Metric(nil), defaultEnabled...)
	}

	var raw []nutrition.Metric
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		logger.Debug("Corrupt metric preferences blob, using defaults", "error", err)
		return append([]nutrition.Metric(nil), defaultEnabled...)
	}

	// Drop unknown identifiers and duplicates so the set stays canonical.
	seen := make(map[nutrition.Metric]bool)
	enabled := make([]nutrition.Metric, 0, len(raw))
	for _, m := range raw {
		if !m.Valid() || seen[m] {
			continue
		}
		seen[m] = true
		enabled = append(enabled, m)
	}
	sortCanonical(enabled)
	return enabled
}

func sortCanonical(ms []nutrition.Metric) {
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].Index() < ms[j].Index()
	})
}

// Enabled returns the enabled metrics in canonical order.
func (s *Service) Enabled() []nutrition.Metric {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]nutrition.Metric(nil), s.enabled...)
}

// IsEnabled reports whether m is currently shown.
func (s *Service) IsEnabled(m nutrition.Metric) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.enabled {
		if e == m {
			return true
		}
	}
	return false
}

// Enable adds m to the enabled set and re-sorts into canonical order.
// Enabling an already-enabled metric leaves the set unchanged.
func (s *Service) Enable(ctx context.Context, m nutrition.Metric) {
	if !m.Valid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]nutrition.Metric, 0, len(s.enabled)+1)
	for _, e := range s.enabled {
		if e != m {
			next = append(next, e)
		}
	}
	next = append(next, m)
	sortCanonical(next)

	s.enabled = next
	s.persist(ctx)
}

// Disable removes m from the enabled set; disabling a metric that isn't
// enabled is a no-op.
func (s *Service) Disable(ctx context.Context, m nutrition.Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]nutrition.Metric, 0, len(s.enabled))
	for _, e := range s.enabled {
		if e != m {
			next = append(next, e)
		}
	}

	s.enabled = next
	s.persist(ctx)
}

// persist writes the whole set. Write failures keep the optimistic in-memory
// state; the next successful write catches the store up.
func (s *Service) persist(ctx context.Context) {
	data, err := json.Marshal(s.enabled)
	if err != nil {
		logger.Warn("Failed to encode metric preferences", "error", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyPreferences, string(data)); err != nil {
		logger.Warn("Failed to persist metric preferences", "error", err)
	}
}
