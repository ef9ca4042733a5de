package models

import (
	"reflect"
	"testing"
)

func checkDensePriorities(t *testing.T, d DaySchedule) {
	t.Helper()
	for i, a := range d.Locations {
		if a.Priority != i+1 {
			t.Fatalf("expected priority %d at index %d, got %d", i+1, i, a.Priority)
		}
	}
}

func dayWithLocations(ids ...string) DaySchedule {
	day := DefaultDaySchedule()
	for _, id := range ids {
		day.AddAssignment()
		idx := len(day.Locations) - 1
		day.Locations[idx].LocationID = id
	}
	return day
}

func TestAddAssignment_Defaults(t *testing.T) {
	day := DefaultDaySchedule()
	day.AddAssignment()

	if len(day.Locations) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(day.Locations))
	}
	a := day.Locations[0]
	if a.LocationID != "" {
		t.Fatalf("expected empty location, got %q", a.LocationID)
	}
	if a.TimeSlot != SlotFlexible {
		t.Fatalf("expected flexible slot, got %q", a.TimeSlot)
	}
	if a.Priority != 1 {
		t.Fatalf("expected priority 1, got %d", a.Priority)
	}

	day.AddAssignment()
	if day.Locations[1].Priority != 2 {
		t.Fatalf("expected priority 2, got %d", day.Locations[1].Priority)
	}
	checkDensePriorities(t, day)
}

func TestRemoveAssignment_ClosesGap(t *testing.T) {
	day := dayWithLocations("a", "b", "c", "d")

	if err := day.RemoveAssignment(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(day.Locations) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(day.Locations))
	}
	ids := []string{day.Locations[0].LocationID, day.Locations[1].LocationID, day.Locations[2].LocationID}
	if !reflect.DeepEqual(ids, []string{"a", "c", "d"}) {
		t.Fatalf("unexpected order after removal: %v", ids)
	}
	checkDensePriorities(t, day)
}

func TestRemoveAssignment_OutOfBounds(t *testing.T) {
	day := dayWithLocations("a")
	if err := day.RemoveAssignment(1); err == nil {
		t.Fatalf("expected error for out-of-bounds removal")
	}
	if err := day.RemoveAssignment(-1); err == nil {
		t.Fatalf("expected error for negative index")
	}
}

func TestReorder_MovesAndRenumbers(t *testing.T) {
	day := dayWithLocations("a", "b", "c", "d")

	if err := day.Reorder(0, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := make([]string, 0, 4)
	for _, a := range day.Locations {
		ids = append(ids, a.LocationID)
	}
	if !reflect.DeepEqual(ids, []string{"b", "c", "a", "d"}) {
		t.Fatalf("unexpected order after reorder: %v", ids)
	}
	checkDensePriorities(t, day)

	if err := day.Reorder(3, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Locations[0].LocationID != "d" {
		t.Fatalf("expected d first, got %q", day.Locations[0].LocationID)
	}
	checkDensePriorities(t, day)
}

func TestReorder_InvalidIndices(t *testing.T) {
	day := dayWithLocations("a", "b")
	if err := day.Reorder(0, 2); err == nil {
		t.Fatalf("expected error for target out of range")
	}
	if err := day.Reorder(-1, 0); err == nil {
		t.Fatalf("expected error for negative source")
	}
}

func TestPrioritiesDenseAfterMixedOperations(t *testing.T) {
	day := DefaultDaySchedule()
	day.AddAssignment()
	day.AddAssignment()
	day.AddAssignment()
	checkDensePriorities(t, day)

	if err := day.RemoveAssignment(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkDensePriorities(t, day)

	day.AddAssignment()
	checkDensePriorities(t, day)

	if err := day.Reorder(2, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkDensePriorities(t, day)
}

func TestUpdateAssignment(t *testing.T) {
	day := dayWithLocations("a", "b")

	loc := "loc-9"
	slot := SlotMorning
	dur := 45
	err := day.UpdateAssignment(1, AssignmentPatch{
		LocationID:        &loc,
		TimeSlot:          &slot,
		EstimatedDuration: &dur,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := day.Locations[1]
	if a.LocationID != "loc-9" || a.TimeSlot != SlotMorning {
		t.Fatalf("patch not applied: %+v", a)
	}
	if a.EstimatedDuration == nil || *a.EstimatedDuration != 45 {
		t.Fatalf("duration override not applied: %+v", a.EstimatedDuration)
	}
	// Priorities untouched by in-place edits.
	checkDensePriorities(t, day)

	if err := day.UpdateAssignment(5, AssignmentPatch{}); err == nil {
		t.Fatalf("expected error for out-of-bounds update")
	}

	bad := TimeSlot("midnight")
	if err := day.UpdateAssignment(0, AssignmentPatch{TimeSlot: &bad}); err == nil {
		t.Fatalf("expected error for unknown time slot")
	}

	if err := day.UpdateAssignment(1, AssignmentPatch{ClearDuration: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Locations[1].EstimatedDuration != nil {
		t.Fatalf("expected duration cleared")
	}
}

func TestDefaultWeeklySchedule(t *testing.T) {
	ws := DefaultWeeklySchedule()
	if len(ws) != 7 {
		t.Fatalf("expected 7 days, got %d", len(ws))
	}
	for _, key := range WeekdayKeys {
		day, ok := ws[key]
		if !ok {
			t.Fatalf("missing day %q", key)
		}
		wantActive := key != "saturday" && key != "sunday"
		if day.IsActive != wantActive {
			t.Fatalf("%s: expected active=%v", key, wantActive)
		}
		if day.WorkStart != "07:00" || day.WorkEnd != "15:30" {
			t.Fatalf("%s: unexpected work hours %s-%s", key, day.WorkStart, day.WorkEnd)
		}
		if day.BreakStart == nil || *day.BreakStart != "11:00" || day.BreakEnd == nil || *day.BreakEnd != "12:00" {
			t.Fatalf("%s: unexpected break", key)
		}
	}
}

func TestCopyDayToAllOthers(t *testing.T) {
	ws := DefaultWeeklySchedule()
	monday := ws["monday"]
	monday.AddAssignment()
	monday.Locations[0].LocationID = "loc-1"
	monday.WorkStart = "06:00"
	ws["monday"] = monday

	before := ws["monday"].Clone()

	if err := ws.CopyDayToAllOthers("monday"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(ws["monday"], before) {
		t.Fatalf("source day was modified")
	}
	for _, key := range WeekdayKeys {
		if key == "monday" {
			continue
		}
		if !reflect.DeepEqual(ws[key], before) {
			t.Fatalf("%s: expected deep copy of monday, got %+v", key, ws[key])
		}
	}

	// Copies must be independent of the source.
	tuesday := ws["tuesday"]
	tuesday.Locations[0].LocationID = "loc-2"
	ws["tuesday"] = tuesday
	if ws["monday"].Locations[0].LocationID != "loc-1" {
		t.Fatalf("mutating a copy leaked into the source day")
	}
	if ws["wednesday"].Locations[0].LocationID != "loc-1" {
		t.Fatalf("mutating a copy leaked into a sibling day")
	}
}

func TestCopyDayToAllOthers_UnknownDay(t *testing.T) {
	ws := DefaultWeeklySchedule()
	if err := ws.CopyDayToAllOthers("someday"); err == nil {
		t.Fatalf("expected error for unknown weekday")
	}
}

func TestWeeklyScheduleScanRoundTrip(t *testing.T) {
	ws := DefaultWeeklySchedule()
	monday := ws["monday"]
	monday.AddAssignment()
	monday.Locations[0].LocationID = "3"
	monday.Locations[0].TimeSlot = SlotBeforeBreak
	ws["monday"] = monday

	value, err := ws.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded WeeklySchedule
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(decoded, ws) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", ws, decoded)
	}
}

func TestWeeklyScheduleScanFillsMissingDays(t *testing.T) {
	var ws WeeklySchedule
	if err := ws.Scan(`{"monday":{"work_start":"08:00","work_end":"16:00","locations":[],"is_active":true}}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ws) != 7 {
		t.Fatalf("expected 7 days after scan, got %d", len(ws))
	}
	if ws["sunday"].IsActive {
		t.Fatalf("filled-in day should be inactive")
	}
}

func TestActiveAssignmentsFiltersUnassigned(t *testing.T) {
	day := dayWithLocations("a", "", "b")
	active := day.ActiveAssignments()
	if len(active) != 2 {
		t.Fatalf("expected 2 active assignments, got %d", len(active))
	}
	if active[0].LocationID != "a" || active[1].LocationID != "b" {
		t.Fatalf("unexpected active assignments: %+v", active)
	}
}
