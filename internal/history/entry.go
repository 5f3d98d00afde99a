package history

import (
	"encoding/json"
	"time"

	"github.com/caloq-app/caloq/internal/nutrition"
	"github.com/caloq-app/caloq/internal/utils"
)

// Entry is a single logged consumption event: absolute consumed amounts plus
// the timestamp and the calendar date key fixed at creation time. The date
// key is stored redundantly on purpose, so grouping stays stable even if the
// device timezone changes later.
type Entry struct {
	nutrition.Vector
	DateISO      string `json:"dateIso"`
	DateReadable string `json:"dateReadable"`
}

// NewEntry stamps consumed amounts with the given instant.
func NewEntry(consumed nutrition.Vector, at time.Time) Entry {
	return Entry{
		Vector:       consumed,
		DateISO:      utils.FormatISO(at),
		DateReadable: utils.ReadableDate(at),
	}
}

// Time parses the entry timestamp. Unparseable timestamps collapse to the
// zero time, which sorts last and falls outside every window.
func (e Entry) Time() time.Time {
	t, err := utils.ParseISO(e.DateISO)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Canonical returns the full canonicalized representation of the entry, used
// as its content identity for import de-duplication.
func (e Entry) Canonical() string {
	data, _ := json.Marshal(e)
	return string(data)
}
