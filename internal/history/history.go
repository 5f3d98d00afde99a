// Package history is the system of record: the append/remove ledger of
// consumption events and the derived aggregates over it.
package history

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/caloq-app/caloq/internal/logger"
	"github.com/caloq-app/caloq/internal/nutrition"
	"github.com/caloq-app/caloq/internal/storage"
	"github.com/caloq-app/caloq/internal/utils"
)

// Service manages the ledger. Mutations persist the full entry list as a
// single blob and then reload it from the store. Entries are immutable once
// created, so reload and memo invalidation key on the entry count alone.
type Service struct {
	mu      sync.Mutex
	store   storage.Store
	entries []Entry // sorted descending by timestamp

	todayMemo TodaySummary
	todayLen  int
	todayDate string
}

// TodaySummary is the current calendar day's entries and their summed
// amounts.
type TodaySummary struct {
	Entries []Entry
	Sum     nutrition.Vector
}

// DateGroup is the per-day sum for one distinct calendar date.
type DateGroup struct {
	Date string
	Sum  nutrition.Vector
}

// Aggregate is the derived result over a time window.
type Aggregate struct {
	Sum         nutrition.Vector
	Avg         nutrition.Vector
	UniqueDates []string
	Entries     []Entry
	DateGroups  []DateGroup
}

// NewService loads the persisted ledger.
func NewService(ctx context.Context, store storage.Store) *Service {
	s := &Service{store: store, todayLen: -1}
	s.reload(ctx)
	return s
}

// reload replaces the in-memory list with the persisted one. If the count is
// unchanged the current list (and the memo keyed on it) is kept: entries are
// immutable, so equal counts mean equal content.
func (s *Service) reload(ctx context.Context) {
	value, ok, err := s.store.Get(ctx, storage.KeyHistory)
	if err != nil {
		logger.Warn("Failed to read history", "error", err)
		return
	}
	if !ok {
		return
	}

	var loaded []Entry
	if err := json.Unmarshal([]byte(value), &loaded); err != nil {
		logger.Debug("Corrupt history blob, keeping current state", "error", err)
		return
	}

	if len(loaded) == len(s.entries) {
		return
	}

	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].Time().After(loaded[j].Time())
	})
	s.entries = loaded
}

func (s *Service) persist(ctx context.Context, entries []Entry) {
	data, err := json.Marshal(entries)
	if err != nil {
		logger.Warn("Failed to encode history", "error", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyHistory, string(data)); err != nil {
		logger.Warn("Failed to persist history", "error", err)
	}
}

// Entries returns the ledger, most recent first.
func (s *Service) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of entries.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Add appends one entry and persists the full list.
func (s *Service) Add(ctx context.Context, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist(ctx, append(append([]Entry(nil), s.entries...), entry))
	s.reload(ctx)
}

// AddMany appends entries in bulk, used by import. De-duplication is the
// importer's concern; the ledger appends what it is given.
func (s *Service) AddMany(ctx context.Context, entries []Entry) {
	if len(entries) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist(ctx, append(append([]Entry(nil), s.entries...), entries...))
	s.reload(ctx)
}

// Remove deletes entries whose timestamp exactly matches dateISO (string
// equality on the stored instant). Entries with identical amounts but other
// timestamps are untouched.
func (s *Service) Remove(ctx context.Context, dateISO string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.DateISO == dateISO {
			continue
		}
		remaining = append(remaining, e)
	}

	s.persist(ctx, remaining)
	s.reload(ctx)
}

// Today returns the current day's entries and sum, memoized on the entry
// count and the calendar date.
func (s *Service) Today(now time.Time) TodaySummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := utils.ReadableDate(now)
	if s.todayLen == len(s.entries) && s.todayDate == date {
		return s.todayMemo
	}

	var summary TodaySummary
	for _, e := range s.entries {
		if e.DateReadable != date {
			continue
		}
		summary.Entries = append(summary.Entries, e)
		summary.Sum = summary.Sum.Plus(e.Vector)
	}

	s.todayMemo = summary
	s.todayLen = len(s.entries)
	s.todayDate = date
	return summary
}

// AggregateRange derives sum, per-distinct-day average and per-day groups for
// entries with from <= timestamp < until. Averaging divides by the number of
// distinct calendar dates present, never by the window length, so sparse
// logging doesn't dilute the average.
func (s *Service) AggregateRange(from, until time.Time) Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg := Aggregate{}
	groupIndex := make(map[string]int)

	for _, e := range s.entries {
		t := e.Time()
		if t.Before(from) || !t.Before(until) {
			continue
		}

		agg.Entries = append(agg.Entries, e)
		agg.Sum = agg.Sum.Plus(e.Vector)

		i, seen := groupIndex[e.DateReadable]
		if !seen {
			i = len(agg.DateGroups)
			groupIndex[e.DateReadable] = i
			agg.DateGroups = append(agg.DateGroups, DateGroup{Date: e.DateReadable})
			agg.UniqueDates = append(agg.UniqueDates, e.DateReadable)
		}
		agg.DateGroups[i].Sum = agg.DateGroups[i].Sum.Plus(e.Vector)
	}

	days := len(agg.UniqueDates)
	if days < 1 {
		days = 1
	}
	agg.Avg = agg.Sum.Scale(1 / float64(days))

	return agg
}

// AggregateLastDays is the trailing N-day window ending now: from the start
// of the day N*24h ago up to now.
func (s *Service) AggregateLastDays(now time.Time, days int) Aggregate {
	return s.AggregateRange(utils.DayStart(utils.DaysAgo(now, days)), now)
}

// SumForDate sums all entries carrying the given calendar date key.
func (s *Service) SumForDate(date string) nutrition.Vector {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum nutrition.Vector
	for _, e := range s.entries {
		if e.DateReadable == date {
			sum = sum.Plus(e.Vector)
		}
	}
	return sum
}

// GroupedByDate buckets the whole ledger by calendar date key, most recent
// day first (first-seen order over the descending entry list).
func (s *Service) GroupedByDate() []DateGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	var groups []DateGroup
	index := make(map[string]int)
	for _, e := range s.entries {
		i, seen := index[e.DateReadable]
		if !seen {
			i = len(groups)
			index[e.DateReadable] = i
			groups = append(groups, DateGroup{Date: e.DateReadable})
		}
		groups[i].Sum = groups[i].Sum.Plus(e.Vector)
	}
	return groups
}

// ChartPoint is one day's kcal total for the trend chart.
type ChartPoint struct {
	Date string
	Kcal float64
}

// ChartData returns per-day kcal sums for up to maxDays most recent days,
// oldest first, ready for a left-to-right trend line.
func (s *Service) ChartData(maxDays int) []ChartPoint {
	groups := s.GroupedByDate()
	if len(groups) > maxDays {
		groups = groups[:maxDays]
	}

	points := make([]ChartPoint, 0, len(groups))
	for i := len(groups) - 1; i >= 0; i-- {
		points = append(points, ChartPoint{Date: groups[i].Date, Kcal: groups[i].Sum.Kcal})
	}
	return points
}
