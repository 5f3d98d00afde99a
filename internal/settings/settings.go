// Package settings holds the behavioural settings: the daily kcal goal, the
// one-day override, and the derived goal signals.
package settings

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/caloq-app/caloq/internal/logger"
	"github.com/caloq-app/caloq/internal/storage"
	"github.com/caloq-app/caloq/internal/utils"
)

// TodayOverride is a custom kcal goal valid only for the calendar date it was
// set on.
type TodayOverride struct {
	SetForDate string  `json:"setForDate"`
	Goal       float64 `json:"goal"`
}

// payload is the persisted shape under the behaviouralSettings key.
type payload struct {
	DailyKcalGoal        *float64       `json:"dailyKcalGoal"`
	TodaysCustomKcalGoal *TodayOverride `json:"todaysCustomKcalGoal,omitempty"`
}

// Service manages the behavioural settings. Loaded once, mutated in place,
// persisted on every change.
type Service struct {
	mu    sync.Mutex
	store storage.Store
	data  payload
}

// NewService loads the persisted settings, defaulting to no goal.
func NewService(ctx context.Context, store storage.Store) *Service {
	s := &Service{store: store}

	value, ok, err := store.Get(ctx, storage.KeyBehaviouralSettings)
	if err != nil {
		logger.Warn("Failed to read behavioural settings", "error", err)
		return s
	}
	if !ok {
		return s
	}
	if err := json.Unmarshal([]byte(value), &s.data); err != nil {
		logger.Debug("Corrupt behavioural settings blob, using defaults", "error", err)
		s.data = payload{}
	}
	return s
}

func (s *Service) persist(ctx context.Context) {
	data, err := json.Marshal(s.data)
	if err != nil {
		logger.Warn("Failed to encode behavioural settings", "error", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyBehaviouralSettings, string(data)); err != nil {
		logger.Warn("Failed to persist behavioural settings", "error", err)
	}
}

// DailyGoal returns the baseline daily kcal goal if one is set.
func (s *Service) DailyGoal() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.DailyKcalGoal == nil {
		return 0, false
	}
	return *s.data.DailyKcalGoal, true
}

// SetDailyGoal sets or clears the baseline goal. Changing the baseline always
// discards the one-day override.
func (s *Service) SetDailyGoal(ctx context.Context, goal *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.DailyKcalGoal = goal
	s.data.TodaysCustomKcalGoal = nil
	s.persist(ctx)
}

// SetTodaysGoal sets a custom goal for the current calendar date, leaving the
// baseline untouched.
func (s *Service) SetTodaysGoal(ctx context.Context, goal float64, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.TodaysCustomKcalGoal = &TodayOverride{
		SetForDate: utils.ReadableDate(now),
		Goal:       goal,
	}
	s.persist(ctx)
}

// HasActiveOverride reports whether a today-override is set for the current
// calendar date.
func (s *Service) HasActiveOverride(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.data.TodaysCustomKcalGoal
	return o != nil && o.SetForDate == utils.ReadableDate(now)
}

// EffectiveTodayGoal resolves the goal that applies to the current day: the
// override wins only when its date matches today, otherwise the baseline,
// otherwise nothing.
func (s *Service) EffectiveTodayGoal(now time.Time) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o := s.data.TodaysCustomKcalGoal; o != nil && o.SetForDate == utils.ReadableDate(now) {
		return o.Goal, true
	}
	if s.data.DailyKcalGoal != nil {
		return *s.data.DailyKcalGoal, true
	}
	return 0, false
}

// RebalanceTarget spreads yesterday's overage as a deduction against today:
// goal - (yesterdayTotal - goal). Offered only when a baseline goal is set,
// yesterday exceeded it, the result is positive, and no override is already
// active for today.
func (s *Service) RebalanceTarget(yesterdayKcal float64, now time.Time) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.DailyKcalGoal == nil {
		return 0, false
	}
	if o := s.data.TodaysCustomKcalGoal; o != nil && o.SetForDate == utils.ReadableDate(now) {
		return 0, false
	}

	goal := *s.data.DailyKcalGoal
	if yesterdayKcal <= goal {
		return 0, false
	}

	target := goal - (yesterdayKcal - goal)
	if target <= 0 {
		return 0, false
	}
	return target, true
}
