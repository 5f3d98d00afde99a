package preferences

import (
	"context"
	"sync"

	"github.com/caloq-app/caloq/internal/logger"
	"github.com/caloq-app/caloq/internal/storage"
)

// HidingNumbers is the numbers-visibility toggle. The persisted convention is
// presence-based: any stored blob means hiding, a missing key means showing.
type HidingNumbers struct {
	mu       sync.Mutex
	store    storage.Store
	isHiding bool
}

// NewHidingNumbers loads the persisted toggle.
func NewHidingNumbers(ctx context.Context, store storage.Store) *HidingNumbers {
	h := &HidingNumbers{store: store}
	value, ok, err := store.Get(ctx, storage.KeyHidingNumbers)
	if err != nil {
		logger.Warn("Failed to read hiding-numbers toggle", "error", err)
	}
	h.isHiding = ok && value != ""
	return h
}

// IsHiding reports whether numbers are currently masked.
func (h *HidingNumbers) IsHiding() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.isHiding
}

// Toggle flips the visibility and persists it.
func (h *HidingNumbers) Toggle(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.isHiding {
		err = h.store.Remove(ctx, storage.KeyHidingNumbers)
	} else {
		err = h.store.Set(ctx, storage.KeyHidingNumbers, "1")
	}
	if err != nil {
		logger.Warn("Failed to persist hiding-numbers toggle", "error", err)
	}
	h.isHiding = !h.isHiding
}
