package history

import (
	"context"
	"testing"
	"time"

	"github.com/caloq-app/caloq/internal/nutrition"
	"github.com/caloq-app/caloq/internal/storage"
	"github.com/caloq-app/caloq/internal/utils"
)

var now = time.Date(2026, 8, 28, 13, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewService(context.Background(), store), store
}

func TestAddAndTodaySum(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 200, Protein: 10}, now))
	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 300, Protein: 5}, now.Add(time.Hour)))
	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 999}, now.Add(-48*time.Hour)))

	today := svc.Today(now)
	if len(today.Entries) != 2 {
		t.Fatalf("today has %d entries, want 2", len(today.Entries))
	}
	if today.Sum.Kcal != 500 || today.Sum.Protein != 15 {
		t.Errorf("today sum = %+v, want kcal 500 protein 15", today.Sum)
	}
}

func TestTodayMemoInvalidatesOnAdd(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 200}, now))
	if got := svc.Today(now).Sum.Kcal; got != 200 {
		t.Fatalf("today kcal = %v, want 200", got)
	}

	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 300}, now))
	if got := svc.Today(now).Sum.Kcal; got != 500 {
		t.Errorf("today kcal after add = %v, want 500", got)
	}
}

func TestTodayMemoInvalidatesOnDateChange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 200}, now))
	if got := svc.Today(now).Sum.Kcal; got != 200 {
		t.Fatalf("today kcal = %v, want 200", got)
	}

	tomorrow := now.Add(24 * time.Hour)
	if got := svc.Today(tomorrow).Sum.Kcal; got != 0 {
		t.Errorf("next day kcal = %v, want 0", got)
	}
}

func TestRemoveMatchesExactTimestampOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	keep := NewEntry(nutrition.Vector{Kcal: 200}, now)
	drop := NewEntry(nutrition.Vector{Kcal: 200}, now.Add(time.Minute))
	svc.AddMany(ctx, []Entry{keep, drop})

	svc.Remove(ctx, drop.DateISO)

	entries := svc.Entries()
	if len(entries) != 1 {
		t.Fatalf("have %d entries, want 1", len(entries))
	}
	if entries[0].DateISO != keep.DateISO {
		t.Errorf("remaining entry is %q, want %q", entries[0].DateISO, keep.DateISO)
	}
}

func TestEntriesSortedMostRecentFirst(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	older := NewEntry(nutrition.Vector{Kcal: 1}, now.Add(-time.Hour))
	newer := NewEntry(nutrition.Vector{Kcal: 2}, now)
	first := NewService(ctx, store)
	first.AddMany(ctx, []Entry{older, newer})

	// A fresh service re-sorts whatever order the blob holds.
	svc := NewService(ctx, store)
	entries := svc.Entries()
	if len(entries) != 2 {
		t.Fatalf("have %d entries, want 2", len(entries))
	}
	if entries[0].DateISO != newer.DateISO {
		t.Errorf("first entry is %q, want the newer one %q", entries[0].DateISO, newer.DateISO)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	first := NewService(ctx, store)
	first.Add(ctx, NewEntry(nutrition.Vector{Kcal: 186, Protein: 7}, now))

	second := NewService(ctx, store)
	if second.Len() != 1 {
		t.Fatalf("reloaded service has %d entries, want 1", second.Len())
	}
	if got := second.Entries()[0].Kcal; got != 186 {
		t.Errorf("reloaded kcal = %v, want 186", got)
	}
}

func TestCorruptBlobKeepsCurrentState(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, storage.KeyHistory, "not json"); err != nil {
		t.Fatal(err)
	}

	svc := NewService(ctx, store)
	if svc.Len() != 0 {
		t.Errorf("service has %d entries, want 0", svc.Len())
	}
}

func TestAggregateSingleDateAveragesOverOneDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 200}, now))
	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 300}, now.Add(time.Hour)))

	agg := svc.AggregateLastDays(now.Add(2*time.Hour), 7)
	if agg.Sum.Kcal != 500 {
		t.Errorf("sum kcal = %v, want 500", agg.Sum.Kcal)
	}
	if agg.Avg.Kcal != 500 {
		t.Errorf("avg kcal = %v, want 500 (single distinct date)", agg.Avg.Kcal)
	}
	if len(agg.UniqueDates) != 1 {
		t.Errorf("have %d unique dates, want 1", len(agg.UniqueDates))
	}
}

func TestAggregateAveragesOverDistinctDatesNotWindow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 400}, now))
	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 600}, now.Add(-24*time.Hour)))

	agg := svc.AggregateLastDays(now.Add(time.Hour), 7)
	if agg.Avg.Kcal != 500 {
		t.Errorf("avg kcal = %v, want 500 over 2 distinct dates", agg.Avg.Kcal)
	}
}

func TestAggregateEmptyWindowIsZero(t *testing.T) {
	svc, _ := newTestService(t)

	agg := svc.AggregateLastDays(now, 7)
	if !agg.Sum.IsZero() || !agg.Avg.IsZero() {
		t.Errorf("empty window aggregate = %+v, want zeros", agg)
	}
}

func TestAggregateRangeBounds(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	from := utils.DayStart(now)
	until := from.Add(utils.Day)

	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 1}, from))                   // inclusive lower bound
	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 2}, until))                  // exclusive upper bound
	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 4}, from.Add(-time.Second))) // before window

	agg := svc.AggregateRange(from, until)
	if agg.Sum.Kcal != 1 {
		t.Errorf("sum kcal = %v, want 1 (from inclusive, until exclusive)", agg.Sum.Kcal)
	}
}

func TestGroupedByDateMostRecentDayFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.AddMany(ctx, []Entry{
		NewEntry(nutrition.Vector{Kcal: 100}, now.Add(-24*time.Hour)),
		NewEntry(nutrition.Vector{Kcal: 200}, now),
		NewEntry(nutrition.Vector{Kcal: 50}, now.Add(time.Minute)),
	})

	groups := svc.GroupedByDate()
	if len(groups) != 2 {
		t.Fatalf("have %d groups, want 2", len(groups))
	}
	if groups[0].Date != utils.ReadableDate(now) {
		t.Errorf("first group date = %q, want today's", groups[0].Date)
	}
	if groups[0].Sum.Kcal != 250 {
		t.Errorf("today's group kcal = %v, want 250", groups[0].Sum.Kcal)
	}
	if groups[1].Sum.Kcal != 100 {
		t.Errorf("yesterday's group kcal = %v, want 100", groups[1].Sum.Kcal)
	}
}

func TestChartDataOldestFirstCapped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var entries []Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, NewEntry(nutrition.Vector{Kcal: float64(100 * (i + 1))}, now.Add(-time.Duration(i)*24*time.Hour)))
	}
	svc.AddMany(ctx, entries)

	points := svc.ChartData(3)
	if len(points) != 3 {
		t.Fatalf("have %d points, want 3", len(points))
	}
	if points[0].Kcal != 300 || points[2].Kcal != 100 {
		t.Errorf("points = %+v, want oldest-first kcal 300..100", points)
	}
}

func TestSumForDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 200}, now))
	svc.Add(ctx, NewEntry(nutrition.Vector{Kcal: 300}, now.Add(time.Hour)))

	if got := svc.SumForDate(utils.ReadableDate(now)).Kcal; got != 500 {
		t.Errorf("SumForDate kcal = %v, want 500", got)
	}
	if got := svc.SumForDate("01/01/00"); !got.IsZero() {
		t.Errorf("unknown date sum = %+v, want zero", got)
	}
}

func TestEntryTimeRoundTrip(t *testing.T) {
	e := NewEntry(nutrition.Vector{}, now)
	if !e.Time().Equal(now.Truncate(time.Millisecond)) {
		t.Errorf("Time() = %v, want %v", e.Time(), now)
	}
}

func TestEntryCanonicalDistinguishesTimestamps(t *testing.T) {
	a := NewEntry(nutrition.Vector{Kcal: 200}, now)
	b := NewEntry(nutrition.Vector{Kcal: 200}, now.Add(time.Minute))
	if a.Canonical() == b.Canonical() {
		t.Error("entries with different timestamps share a canonical form")
	}
	if a.Canonical() != a.Canonical() {
		t.Error("canonical form is not stable")
	}
}
