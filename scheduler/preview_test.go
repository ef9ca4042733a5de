package scheduler

import (
	"strings"
	"testing"

	"github.com/propretech/cleanops-app/models"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func testLocations() map[string]LocationInfo {
	return map[string]LocationInfo{
		"1": {ID: 1, Name: "Downtown Office", Surface: 120, CleaningCoefficient: 0.5, Type: models.LocationOffice},
		"2": {ID: 2, Name: "Main Street Shop", Surface: 200, CleaningCoefficient: 0.45, Type: models.LocationCommerce},
		"3": {ID: 3, Name: "Riverside Flats", Type: models.LocationResidence}, // no surface data
	}
}

func basicConfig(assignments ...models.LocationAssignment) PlanningConfig {
	return PlanningConfig{
		AgentID:    1,
		WorkStart:  "07:00",
		WorkEnd:    "15:30",
		BreakStart: strPtr("11:00"),
		BreakEnd:   strPtr("12:00"),
		Locations:  assignments,
	}
}

func TestValidate_RequiresAgentAndLocations(t *testing.T) {
	cfg := basicConfig(models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotFlexible})
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.AgentID = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for missing agent")
	}

	cfg = basicConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty location list")
	}

	// Unassigned editing slots do not count.
	cfg = basicConfig(models.LocationAssignment{LocationID: "", Priority: 1, TimeSlot: models.SlotFlexible})
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when all slots are unassigned")
	}
}

func TestBuildPreview_SingleFlexibleTask(t *testing.T) {
	cfg := basicConfig(models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotFlexible})

	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	if len(preview.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(preview.Tasks))
	}
	task := preview.Tasks[0]
	// 120 m2 at 0.5 min/m2 = 60 min from 07:00.
	if task.StartTime != "07:00" || task.EndTime != "08:00" || task.Duration != 60 {
		t.Fatalf("unexpected placement: %+v", task)
	}
	if preview.TotalDuration != 60 {
		t.Fatalf("expected total 60, got %d", preview.TotalDuration)
	}
	if task.LocationName != "Downtown Office" {
		t.Fatalf("expected location name resolved, got %q", task.LocationName)
	}
}

func TestBuildPreview_SequentialPlacementInPriorityOrder(t *testing.T) {
	cfg := basicConfig(
		models.LocationAssignment{LocationID: "2", Priority: 2, TimeSlot: models.SlotFlexible},
		models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotFlexible},
	)

	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	if len(preview.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(preview.Tasks))
	}
	if preview.Tasks[0].LocationID != "1" || preview.Tasks[1].LocationID != "2" {
		t.Fatalf("expected priority order, got %+v", preview.Tasks)
	}
	if preview.Tasks[1].StartTime != preview.Tasks[0].EndTime {
		t.Fatalf("expected back-to-back placement: %+v", preview.Tasks)
	}
}

func TestBuildPreview_TaskPushedPastBreak(t *testing.T) {
	// 180 min from 08:30 would run into the 11:00 break.
	cfg := basicConfig(
		models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotFlexible, EstimatedDuration: intPtr(90)},
		models.LocationAssignment{LocationID: "2", Priority: 2, TimeSlot: models.SlotFlexible, EstimatedDuration: intPtr(180)},
	)

	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	second := preview.Tasks[1]
	if second.StartTime != "12:00" {
		t.Fatalf("expected second task pushed past the break, starts %s", second.StartTime)
	}
	if second.EndTime != "15:00" {
		t.Fatalf("expected second task to end 15:00, got %s", second.EndTime)
	}
}

func TestBuildPreview_BeforeBreakWindow(t *testing.T) {
	cfg := basicConfig(
		models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotBeforeBreak, EstimatedDuration: intPtr(240)},
	)

	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	task := preview.Tasks[0]
	if task.EndTime != "11:00" {
		t.Fatalf("expected task to end exactly at break start, got %s", task.EndTime)
	}

	// One more minute cannot fit before the break.
	cfg.Locations[0].EstimatedDuration = intPtr(241)
	preview = BuildPreview(cfg, testLocations())
	if !preview.HasConflicts() {
		t.Fatalf("expected conflict for task exceeding the before-break window")
	}
}

func TestBuildPreview_AfterBreakWindow(t *testing.T) {
	cfg := basicConfig(
		models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotAfterBreak, EstimatedDuration: intPtr(60)},
	)

	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	if preview.Tasks[0].StartTime != "12:00" {
		t.Fatalf("expected start at break end, got %s", preview.Tasks[0].StartTime)
	}
}

func TestBuildPreview_BreakSlotWithoutBreak(t *testing.T) {
	cfg := PlanningConfig{
		AgentID:   1,
		WorkStart: "07:00",
		WorkEnd:   "15:30",
		Locations: []models.LocationAssignment{
			{LocationID: "1", Priority: 1, TimeSlot: models.SlotBeforeBreak},
		},
	}
	preview := BuildPreview(cfg, testLocations())
	if !preview.HasConflicts() {
		t.Fatalf("expected conflict for break-relative slot without a configured break")
	}
}

func TestBuildPreview_MorningAndAfternoonWindows(t *testing.T) {
	cfg := basicConfig(
		models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotAfternoon, EstimatedDuration: intPtr(60)},
	)
	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	// Afternoon begins after the break since the break ends at midday.
	if preview.Tasks[0].StartTime != "12:00" {
		t.Fatalf("expected afternoon start 12:00, got %s", preview.Tasks[0].StartTime)
	}

	// A morning task longer than the 07:00-11:00 window must conflict.
	cfg = basicConfig(
		models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotMorning, EstimatedDuration: intPtr(300)},
	)
	preview = BuildPreview(cfg, testLocations())
	if !preview.HasConflicts() {
		t.Fatalf("expected conflict for oversized morning task")
	}
}

func TestBuildPreview_FallbackDurationWarns(t *testing.T) {
	cfg := basicConfig(
		models.LocationAssignment{LocationID: "3", Priority: 1, TimeSlot: models.SlotFlexible},
	)
	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	// Residence fallback is 120 min.
	if preview.Tasks[0].Duration != 120 {
		t.Fatalf("expected fallback duration 120, got %d", preview.Tasks[0].Duration)
	}
	found := false
	for _, w := range preview.Warnings {
		if strings.Contains(w, "fallback") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected fallback warning, got %v", preview.Warnings)
	}
}

func TestBuildPreview_UnknownLocationConflicts(t *testing.T) {
	cfg := basicConfig(
		models.LocationAssignment{LocationID: "99", Priority: 1, TimeSlot: models.SlotFlexible},
	)
	preview := BuildPreview(cfg, testLocations())
	if !preview.HasConflicts() {
		t.Fatalf("expected conflict for unknown location")
	}
	if len(preview.Tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(preview.Tasks))
	}
}

func TestBuildPreview_InvalidBounds(t *testing.T) {
	cfg := basicConfig()
	cfg.WorkStart, cfg.WorkEnd = "15:00", "07:00"
	if preview := BuildPreview(cfg, nil); !preview.HasConflicts() {
		t.Fatalf("expected conflict for inverted work hours")
	}

	cfg = basicConfig()
	cfg.BreakEnd = nil
	if preview := BuildPreview(cfg, nil); !preview.HasConflicts() {
		t.Fatalf("expected conflict for half-configured break")
	}

	cfg = basicConfig()
	cfg.BreakStart, cfg.BreakEnd = strPtr("06:00"), strPtr("06:30")
	if preview := BuildPreview(cfg, nil); !preview.HasConflicts() {
		t.Fatalf("expected conflict for break outside the workday")
	}

	cfg = basicConfig()
	cfg.WorkStart = "7h00"
	if preview := BuildPreview(cfg, nil); !preview.HasConflicts() {
		t.Fatalf("expected conflict for malformed time")
	}
}

func TestBuildPreview_IdleGapWarning(t *testing.T) {
	cfg := basicConfig(
		models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotFlexible, EstimatedDuration: intPtr(30)},
		models.LocationAssignment{LocationID: "2", Priority: 2, TimeSlot: models.SlotAfternoon, EstimatedDuration: intPtr(60)},
	)
	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	// 07:30 to 12:00 minus the hour of break leaves a 210 min idle gap.
	found := false
	for _, w := range preview.Warnings {
		if strings.Contains(w, "idle gap") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected idle gap warning, got %v", preview.Warnings)
	}
}

func TestBuildPreview_HighUtilizationWarning(t *testing.T) {
	// 420 of the 450 available minutes planned (the break does not count).
	cfg := basicConfig(
		models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotFlexible, EstimatedDuration: intPtr(240)},
		models.LocationAssignment{LocationID: "2", Priority: 2, TimeSlot: models.SlotFlexible, EstimatedDuration: intPtr(180)},
	)
	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	if preview.TotalDuration != 420 {
		t.Fatalf("expected total 420, got %d", preview.TotalDuration)
	}
	found := false
	for _, w := range preview.Warnings {
		if strings.Contains(w, "90%") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected utilization warning, got %v", preview.Warnings)
	}
}

func TestBuildPreview_ShortOverrideWarning(t *testing.T) {
	cfg := basicConfig(
		models.LocationAssignment{LocationID: "1", Priority: 1, TimeSlot: models.SlotFlexible, EstimatedDuration: intPtr(10)},
	)
	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", preview.Conflicts)
	}
	if preview.Tasks[0].Duration != 10 {
		t.Fatalf("expected override honored, got %d", preview.Tasks[0].Duration)
	}
	found := false
	for _, w := range preview.Warnings {
		if strings.Contains(w, "unusually short") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected short-override warning, got %v", preview.Warnings)
	}
}

func TestBuildPreview_MondayScenario(t *testing.T) {
	// The canonical editor flow: default monday, one flexible location.
	ws := models.DefaultWeeklySchedule()
	day := ws["monday"]
	day.AddAssignment()
	day.Locations[0].LocationID = "1"
	ws["monday"] = day

	cfg := ConfigFromDay(42, ws["monday"])
	if cfg.WorkStart != "07:00" || cfg.WorkEnd != "15:30" {
		t.Fatalf("unexpected work hours: %+v", cfg)
	}
	if cfg.BreakStart == nil || *cfg.BreakStart != "11:00" {
		t.Fatalf("expected default break carried into config")
	}
	if len(cfg.Locations) != 1 || cfg.Locations[0].LocationID != "1" || cfg.Locations[0].Priority != 1 {
		t.Fatalf("unexpected assignments: %+v", cfg.Locations)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	preview := BuildPreview(cfg, testLocations())
	if preview.HasConflicts() {
		t.Fatalf("expected clean preview, got conflicts %v", preview.Conflicts)
	}
}
