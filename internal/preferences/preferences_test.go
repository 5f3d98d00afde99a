package preferences

import (
	"context"
	"reflect"
	"testing"

	"github.com/caloq-app/caloq/internal/nutrition"
	"github.com/caloq-app/caloq/internal/storage"
)

func TestFreshInstallDefaults(t *testing.T) {
	svc := NewService(context.Background(), storage.NewMemoryStore())

	want := []nutrition.Metric{nutrition.MetricKcal, nutrition.MetricProtein, nutrition.MetricSugar}
	if got := svc.Enabled(); !reflect.DeepEqual(got, want) {
		t.Errorf("default enabled = %v, want %v", got, want)
	}
}

func TestEnableResortsCanonically(t *testing.T) {
	svc := NewService(context.Background(), storage.NewMemoryStore())
	ctx := context.Background()

	svc.Enable(ctx, nutrition.MetricCarbs)
	svc.Enable(ctx, nutrition.MetricFat)

	want := []nutrition.Metric{
		nutrition.MetricKcal,
		nutrition.MetricProtein,
		nutrition.MetricSugar,
		nutrition.MetricFat,
		nutrition.MetricCarbs,
	}
	if got := svc.Enabled(); !reflect.DeepEqual(got, want) {
		t.Errorf("enabled = %v, want canonical order %v", got, want)
	}
}

func TestEnableIsIdempotent(t *testing.T) {
	svc := NewService(context.Background(), storage.NewMemoryStore())
	ctx := context.Background()

	before := svc.Enabled()
	svc.Enable(ctx, nutrition.MetricKcal)
	if got := svc.Enabled(); !reflect.DeepEqual(got, before) {
		t.Errorf("re-enabling kcal changed the set: %v", got)
	}
}

func TestEnableUnknownMetricIsNoOp(t *testing.T) {
	svc := NewService(context.Background(), storage.NewMemoryStore())
	ctx := context.Background()

	before := svc.Enabled()
	svc.Enable(ctx, nutrition.Metric("sodium"))
	if got := svc.Enabled(); !reflect.DeepEqual(got, before) {
		t.Errorf("enabling an unknown metric changed the set: %v", got)
	}
}

func TestDisable(t *testing.T) {
	svc := NewService(context.Background(), storage.NewMemoryStore())
	ctx := context.Background()

	svc.Disable(ctx, nutrition.MetricSugar)
	if svc.IsEnabled(nutrition.MetricSugar) {
		t.Error("sugar is still enabled after Disable")
	}

	// Disabling a metric that isn't enabled changes nothing.
	before := svc.Enabled()
	svc.Disable(ctx, nutrition.MetricCarbs)
	if got := svc.Enabled(); !reflect.DeepEqual(got, before) {
		t.Errorf("disabling a disabled metric changed the set: %v", got)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	first := NewService(ctx, store)
	first.Enable(ctx, nutrition.MetricFiber)
	first.Disable(ctx, nutrition.MetricSugar)

	second := NewService(ctx, store)
	want := []nutrition.Metric{nutrition.MetricKcal, nutrition.MetricProtein, nutrition.MetricFiber}
	if got := second.Enabled(); !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded enabled = %v, want %v", got, want)
	}
}

func TestLoadDropsUnknownAndDuplicateIdentifiers(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, storage.KeyPreferences, `["carbs","sodium","kcal","kcal"]`); err != nil {
		t.Fatal(err)
	}

	svc := NewService(ctx, store)
	want := []nutrition.Metric{nutrition.MetricKcal, nutrition.MetricCarbs}
	if got := svc.Enabled(); !reflect.DeepEqual(got, want) {
		t.Errorf("sanitized enabled = %v, want %v", got, want)
	}
}

func TestCorruptBlobFallsBackToDefaults(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, storage.KeyPreferences, "garbage"); err != nil {
		t.Fatal(err)
	}

	svc := NewService(ctx, store)
	want := []nutrition.Metric{nutrition.MetricKcal, nutrition.MetricProtein, nutrition.MetricSugar}
	if got := svc.Enabled(); !reflect.DeepEqual(got, want) {
		t.Errorf("enabled after corrupt blob = %v, want defaults %v", got, want)
	}
}

func TestHidingNumbersToggle(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	h := NewHidingNumbers(ctx, store)
	if h.IsHiding() {
		t.Fatal("fresh install hides numbers")
	}

	h.Toggle(ctx)
	if !h.IsHiding() {
		t.Fatal("toggle did not enable hiding")
	}

	// The persisted convention is presence-based.
	if _, ok, _ := store.Get(ctx, storage.KeyHidingNumbers); !ok {
		t.Error("hiding is on but no blob is stored")
	}

	reloaded := NewHidingNumbers(ctx, store)
	if !reloaded.IsHiding() {
		t.Error("reloaded toggle lost the hiding state")
	}

	h.Toggle(ctx)
	if h.IsHiding() {
		t.Error("second toggle did not disable hiding")
	}
	if _, ok, _ := store.Get(ctx, storage.KeyHidingNumbers); ok {
		t.Error("hiding is off but a blob is still stored")
	}
}
