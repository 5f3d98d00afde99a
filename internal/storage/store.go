// Package storage provides the persistent blob store the trackers write
// through: keyed get/set/remove of UTF-8 string blobs over a small fixed key
// set. Backends are interchangeable; there is no transactionality across
// keys.
package storage

import "context"

// Logical blob keys. The names are part of the persisted data format and
// must not change.
const (
	KeyHistory             = "history"
	KeyMeals               = "meals"
	KeyPreferences         = "nutrionalValuePreferences"
	KeyBehaviouralSettings = "behaviouralSettings"
	KeyHidingNumbers       = "isHidingNumbers"
)

// Store is the abstract blob store. Get reports ok=false for a missing key
// without an error; errors are reserved for backend failures.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
