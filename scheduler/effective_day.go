package scheduler

import (
	"fmt"
	"time"

	"github.com/propretech/cleanops-app/models"
)

// EffectiveDayKey maps a calendar date to its weekly-schedule key. The
// weekday table is indexed by time.Weekday (Sunday = 0), so there is exactly
// one day-key ordering in the whole codebase.
func EffectiveDayKey(t time.Time) string {
	return models.WeekdayKeys[int(t.Weekday())]
}

// ResolveEffectiveDay selects the DaySchedule governing the given date.
// An inactive day is refused explicitly rather than yielding an empty plan.
func ResolveEffectiveDay(ws models.WeeklySchedule, date time.Time) (models.DaySchedule, string, error) {
	key := EffectiveDayKey(date)
	day, ok := ws[key]
	if !ok {
		return models.DaySchedule{}, key, fmt.Errorf("no schedule configured for %s", key)
	}
	if !day.IsActive {
		return models.DaySchedule{}, key, fmt.Errorf("no schedule configured for today: %s is inactive", key)
	}
	return day, key, nil
}
