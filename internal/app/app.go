// Package app wires the five stores into one explicitly-passed state struct
// and owns the derived goal signals the entry surface consumes.
package app

import (
	"context"
	"time"

	"github.com/caloq-app/caloq/internal/history"
	"github.com/caloq-app/caloq/internal/meals"
	"github.com/caloq-app/caloq/internal/preferences"
	"github.com/caloq-app/caloq/internal/settings"
	"github.com/caloq-app/caloq/internal/storage"
	"github.com/caloq-app/caloq/internal/transfer"
	"github.com/caloq-app/caloq/internal/utils"
)

// App holds the stores. It is constructed once at startup and passed to
// whatever consumes it; there is no ambient global state.
type App struct {
	History       *history.Service
	Meals         *meals.Service
	Preferences   *preferences.Service
	HidingNumbers *preferences.HidingNumbers
	Settings      *settings.Service
	Transfer      *transfer.Codec
}

// New loads every store from the blob store.
func New(ctx context.Context, store storage.Store) *App {
	historySvc := history.NewService(ctx, store)
	mealsSvc := meals.NewService(ctx, store)

	return &App{
		History:       historySvc,
		Meals:         mealsSvc,
		Preferences:   preferences.NewService(ctx, store),
		HidingNumbers: preferences.NewHidingNumbers(ctx, store),
		Settings:      settings.NewService(ctx, store),
		Transfer:      transfer.NewCodec(historySvc, mealsSvc),
	}
}

// GoalStatus is the state of today's kcal goal.
type GoalStatus struct {
	Goal      float64
	Consumed  float64
	Remaining float64
	// Exceeded is the warning signal: consumption has reached the goal.
	Exceeded bool
}

// TodayGoalStatus resolves the effective goal for today against today's
// consumed kcal. ok is false when no goal applies.
func (a *App) TodayGoalStatus(now time.Time) (GoalStatus, bool) {
	goal, ok := a.Settings.EffectiveTodayGoal(now)
	if !ok {
		return GoalStatus{}, false
	}

	consumed := a.History.Today(now).Sum.Kcal
	return GoalStatus{
		Goal:      goal,
		Consumed:  consumed,
		Remaining: goal - consumed,
		Exceeded:  consumed >= goal,
	}, true
}

// RebalanceSuggestion computes the reduced target for today when yesterday's
// total overshot the baseline goal.
func (a *App) RebalanceSuggestion(now time.Time) (float64, bool) {
	yesterday := a.History.SumForDate(utils.ReadableDate(utils.DaysAgo(now, 1)))
	return a.Settings.RebalanceTarget(yesterday.Kcal, now)
}
