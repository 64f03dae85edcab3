package calendar

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := ParseKey(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func TestBuild_Shape(t *testing.T) {
	refs := []string{
		"2025-08-15", // August 2025 starts on a Friday
		"2025-09-01", // September 2025 starts on a Monday
		"2025-02-10", // non-leap February
		"2024-02-29", // leap day
		"2025-12-31", // year boundary
		"2026-01-01",
	}
	for _, rs := range refs {
		ref := mustParse(t, rs)
		days := Build(ref)

		if len(days) != GridSize {
			t.Fatalf("ref %s: got %d days, want %d", rs, len(days), GridSize)
		}
		if days[0].Date.Weekday() != time.Monday {
			t.Errorf("ref %s: grid starts on %s, want Monday", rs, days[0].Date.Weekday())
		}
		for i := 1; i < len(days); i++ {
			if got := days[i].Date.Sub(days[i-1].Date); got != 24*time.Hour {
				t.Fatalf("ref %s: days %d..%d not consecutive (%s apart)", rs, i-1, i, got)
			}
		}

		year, month, _ := ref.Date()
		firstKey := Key(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
		lastKey := Key(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
		found := map[string]bool{}
		for _, d := range days {
			found[d.Key] = true
		}
		if !found[firstKey] || !found[lastKey] {
			t.Errorf("ref %s: grid missing month bounds %s..%s", rs, firstKey, lastKey)
		}
	}
}

func TestBuild_MondayFirstOfMonth(t *testing.T) {
	// 2025-09-01 is a Monday; the grid must start on the 1st itself.
	days := Build(mustParse(t, "2025-09-15"))
	if days[0].Key != "2025-09-01" {
		t.Fatalf("grid start = %s, want 2025-09-01", days[0].Key)
	}
}

func TestBuild_TodayFlag(t *testing.T) {
	ref := mustParse(t, "2025-08-15")
	days := Build(ref)

	var todays []string
	for _, d := range days {
		if d.IsToday {
			todays = append(todays, d.Key)
		}
	}
	if len(todays) != 1 || todays[0] != "2025-08-15" {
		t.Fatalf("IsToday cells = %v, want exactly [2025-08-15]", todays)
	}
}

func TestBuild_InMonthFlag(t *testing.T) {
	days := Build(mustParse(t, "2025-08-15"))

	n := 0
	for _, d := range days {
		if d.InMonth {
			n++
		}
	}
	if n != 31 {
		t.Errorf("InMonth count = %d, want 31 for August", n)
	}
	// August 2025 starts Friday, so the grid leads with July days.
	if days[0].Key != "2025-07-28" {
		t.Errorf("grid start = %s, want 2025-07-28", days[0].Key)
	}
	if days[0].InMonth {
		t.Errorf("leading July day flagged InMonth")
	}
}

func TestKeyZeroPadding(t *testing.T) {
	got := Key(time.Date(2025, time.March, 5, 13, 45, 0, 0, time.UTC))
	if got != "2025-03-05" {
		t.Fatalf("Key = %q, want 2025-03-05", got)
	}
}

func TestDayLabel(t *testing.T) {
	if got := DayLabel("2025-08-15"); got != "Aug 15, 2025" {
		t.Errorf("DayLabel = %q, want %q", got, "Aug 15, 2025")
	}
	if got := DayLabel("not-a-date"); got != "not-a-date" {
		t.Errorf("DayLabel fallback = %q, want input unchanged", got)
	}
}
