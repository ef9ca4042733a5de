package scheduler

import (
	"testing"
	"time"

	"github.com/propretech/cleanops-app/models"
)

// 2025-06-01 is a Sunday; the following days walk the whole week.
func weekOf(t *testing.T) []time.Time {
	t.Helper()
	sunday := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	if sunday.Weekday() != time.Sunday {
		t.Fatalf("test anchor is not a sunday")
	}
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = sunday.AddDate(0, 0, i)
	}
	return days
}

func TestEffectiveDayKey_AllWeekdays(t *testing.T) {
	expected := []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	for i, date := range weekOf(t) {
		if got := EffectiveDayKey(date); got != expected[i] {
			t.Fatalf("day %d: expected %q, got %q", i, expected[i], got)
		}
	}
}

func TestResolveEffectiveDay_MatchesSchedule(t *testing.T) {
	ws := models.DefaultWeeklySchedule()
	// Give each day a distinguishable start time.
	for i, key := range models.WeekdayKeys {
		day := ws[key]
		day.IsActive = true
		day.WorkStart = time.Date(2025, 1, 1, 6+i, 0, 0, 0, time.UTC).Format("15:04")
		ws[key] = day
	}

	for i, date := range weekOf(t) {
		day, key, err := ResolveEffectiveDay(ws, date)
		if err != nil {
			t.Fatalf("day %d: unexpected error: %v", i, err)
		}
		if key != models.WeekdayKeys[i] {
			t.Fatalf("day %d: expected key %q, got %q", i, models.WeekdayKeys[i], key)
		}
		if day.WorkStart != ws[key].WorkStart {
			t.Fatalf("day %d: resolved wrong schedule", i)
		}
	}
}

func TestResolveEffectiveDay_InactiveRefused(t *testing.T) {
	ws := models.DefaultWeeklySchedule()
	sunday := weekOf(t)[0]

	_, _, err := ResolveEffectiveDay(ws, sunday)
	if err == nil {
		t.Fatalf("expected error for inactive sunday")
	}
}
