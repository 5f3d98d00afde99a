package utils

import "time"

// Day is the length of one calendar day used for rolling windows.
const Day = 24 * time.Hour

// isoLayout matches the wire format of entry timestamps: RFC3339 UTC with
// millisecond precision.
const isoLayout = "2006-01-02T15:04:05.000Z"

// readableLayout is the calendar date key format, MM/DD/YY.
const readableLayout = "01/02/06"

// FormatISO renders t as the canonical entry timestamp.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ParseISO parses a canonical entry timestamp. It also accepts plain RFC3339
// for data written by other tools.
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(isoLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ReadableDate renders the calendar date key for t. The key is computed once
// at entry creation and stored, so later timezone changes don't regroup
// history.
func ReadableDate(t time.Time) string {
	return t.Format(readableLayout)
}

// DayStart truncates t to 00:00:00 local time.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysAgo returns the instant n*24h before now.
func DaysAgo(now time.Time, n int) time.Time {
	return now.Add(-time.Duration(n) * Day)
}
