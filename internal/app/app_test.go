package app

import (
	"context"
	"testing"
	"time"

	"github.com/caloq-app/caloq/internal/history"
	"github.com/caloq-app/caloq/internal/nutrition"
	"github.com/caloq-app/caloq/internal/storage"
)

var now = time.Date(2026, 8, 28, 13, 30, 0, 0, time.UTC)

func goalPtr(v float64) *float64 { return &v }

func TestNewWiresAllStores(t *testing.T) {
	a := New(context.Background(), storage.NewMemoryStore())

	if a.History == nil || a.Meals == nil || a.Preferences == nil ||
		a.HidingNumbers == nil || a.Settings == nil || a.Transfer == nil {
		t.Fatalf("app has nil stores: %+v", a)
	}
}

func TestTodayGoalStatus(t *testing.T) {
	ctx := context.Background()
	a := New(ctx, storage.NewMemoryStore())

	if _, ok := a.TodayGoalStatus(now); ok {
		t.Error("goal status reported without a goal")
	}

	a.Settings.SetDailyGoal(ctx, goalPtr(2000))
	a.History.Add(ctx, history.NewEntry(nutrition.Vector{Kcal: 100}, now))

	status, ok := a.TodayGoalStatus(now)
	if !ok {
		t.Fatal("no goal status with a goal set")
	}
	if status.Goal != 2000 || status.Consumed != 100 || status.Remaining != 1900 {
		t.Errorf("status = %+v, want goal 2000 consumed 100 remaining 1900", status)
	}
	if status.Exceeded {
		t.Error("goal reported exceeded at 100/2000")
	}

	a.History.Add(ctx, history.NewEntry(nutrition.Vector{Kcal: 1900}, now))
	status, _ = a.TodayGoalStatus(now)
	if !status.Exceeded {
		t.Error("goal not reported exceeded at 2000/2000")
	}
}

func TestTodayGoalStatusUsesOverride(t *testing.T) {
	ctx := context.Background()
	a := New(ctx, storage.NewMemoryStore())

	a.Settings.SetDailyGoal(ctx, goalPtr(2000))
	a.Settings.SetTodaysGoal(ctx, 1600, now)

	status, ok := a.TodayGoalStatus(now)
	if !ok || status.Goal != 1600 {
		t.Errorf("status = %+v %v, want the override goal 1600", status, ok)
	}
}

func TestRebalanceSuggestion(t *testing.T) {
	ctx := context.Background()
	a := New(ctx, storage.NewMemoryStore())

	a.Settings.SetDailyGoal(ctx, goalPtr(2000))
	a.History.Add(ctx, history.NewEntry(nutrition.Vector{Kcal: 2400}, now.Add(-24*time.Hour)))

	target, ok := a.RebalanceSuggestion(now)
	if !ok || target != 1600 {
		t.Errorf("suggestion = %v %v, want 1600 true", target, ok)
	}

	// Accepting the suggestion sets the override and suppresses it.
	a.Settings.SetTodaysGoal(ctx, target, now)
	if _, ok := a.RebalanceSuggestion(now); ok {
		t.Error("suggestion still offered after it was applied")
	}
}

func TestRebalanceSuggestionNeedsOverage(t *testing.T) {
	ctx := context.Background()
	a := New(ctx, storage.NewMemoryStore())

	a.Settings.SetDailyGoal(ctx, goalPtr(2000))
	a.History.Add(ctx, history.NewEntry(nutrition.Vector{Kcal: 1800}, now.Add(-24*time.Hour)))

	if _, ok := a.RebalanceSuggestion(now); ok {
		t.Error("suggestion offered when yesterday was under the goal")
	}
}
