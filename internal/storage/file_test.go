package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, KeyHistory); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v, want false nil", ok, err)
	}

	if err := store.Set(ctx, KeyHistory, `[{"kcal":200}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := store.Get(ctx, KeyHistory)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v, want true nil", ok, err)
	}
	if value != `[{"kcal":200}]` {
		t.Errorf("value = %q", value)
	}
}

func TestFileStoreSetOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, KeyMeals, "first"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, KeyMeals, "second"); err != nil {
		t.Fatal(err)
	}

	value, _, err := store.Get(ctx, KeyMeals)
	if err != nil {
		t.Fatal(err)
	}
	if value != "second" {
		t.Errorf("value = %q, want %q", value, "second")
	}
}

func TestFileStoreRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, KeyHidingNumbers, "1"); err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(ctx, KeyHidingNumbers); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, KeyHidingNumbers); ok {
		t.Error("key still present after remove")
	}

	// Removing an absent key is not an error.
	if err := store.Remove(ctx, KeyHidingNumbers); err != nil {
		t.Errorf("remove of absent key: %v", err)
	}
}

func TestFileStoreCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("nested dir: %v", err)
	}
	if err := store.Set(context.Background(), KeyHistory, "[]"); err != nil {
		t.Fatalf("set in nested dir: %v", err)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, KeyPreferences); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v, want false nil", ok, err)
	}

	if err := store.Set(ctx, KeyPreferences, `["kcal"]`); err != nil {
		t.Fatal(err)
	}
	value, ok, err := store.Get(ctx, KeyPreferences)
	if err != nil || !ok || value != `["kcal"]` {
		t.Errorf("get = %q %v %v, want stored value", value, ok, err)
	}

	if err := store.Remove(ctx, KeyPreferences); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, KeyPreferences); ok {
		t.Error("key still present after remove")
	}
}
