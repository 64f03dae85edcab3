// Package calendar computes the fixed 6-week month grid used by every
// surface. The grid always covers the month of the reference date: 42
// consecutive days starting at the Monday on or before the 1st, so leading
// and trailing days from adjacent months are included.
package calendar

import (
	"fmt"
	"time"
)

// GridSize is the number of cells in a month grid (6 weeks of 7 days).
const GridSize = 42

// Day is one cell of the month grid.
type Day struct {
	Date    time.Time
	Key     string // YYYY-MM-DD
	InMonth bool   // belongs to the reference month
	IsToday bool   // equals the reference date's calendar day
}

// Key formats t as a YYYY-MM-DD date key (zero-padded, no time component).
func Key(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseKey parses a YYYY-MM-DD date key. The zero time and an error are
// returned for anything else.
func ParseKey(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// Build returns the 42-day grid for ref's month. Weeks start on Monday; this
// is fixed, not configurable. The cell matching ref's calendar day carries
// IsToday.
func Build(ref time.Time) []Day {
	year, month, _ := ref.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())

	// time.Weekday is Sunday-based; shift so Monday == 0.
	back := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -back)

	refKey := Key(ref)
	days := make([]Day, 0, GridSize)
	for i := 0; i < GridSize; i++ {
		d := start.AddDate(0, 0, i)
		days = append(days, Day{
			Date:    d,
			Key:     Key(d),
			InMonth: d.Month() == month && d.Year() == year,
			IsToday: Key(d) == refKey,
		})
	}
	return days
}

// MonthLabel formats ref's month for grid headers, e.g. "August 2025".
func MonthLabel(ref time.Time) string {
	return ref.Format("January 2006")
}

// DayLabel formats a date key for detail-panel headers, e.g. "Aug 15, 2025".
// Keys that do not parse are returned unchanged.
func DayLabel(key string) string {
	t, err := ParseKey(key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2, 2006")
}

// Weekdays returns the grid header labels in week order.
func Weekdays() []string {
	return []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
}
