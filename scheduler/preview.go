package scheduler

import (
	"fmt"
	"sort"

	"github.com/propretech/cleanops-app/models"
	"github.com/propretech/cleanops-app/utils"
)

const middayMinutes = 12 * 60

// PlanningConfig is one effective day's configuration submitted for preview
// or generation: the agent's work hours, optional lunch break, and the
// ordered location assignments.
type PlanningConfig struct {
	AgentID    uint                        `json:"agent_id"`
	WorkStart  string                      `json:"work_start"`
	WorkEnd    string                      `json:"work_end"`
	BreakStart *string                     `json:"break_start,omitempty"`
	BreakEnd   *string                     `json:"break_end,omitempty"`
	Locations  []models.LocationAssignment `json:"locations"`
}

// ConfigFromDay extracts the submittable configuration from a day schedule,
// keeping only assignments that reference a location.
func ConfigFromDay(agentID uint, day models.DaySchedule) PlanningConfig {
	return PlanningConfig{
		AgentID:    agentID,
		WorkStart:  day.WorkStart,
		WorkEnd:    day.WorkEnd,
		BreakStart: day.BreakStart,
		BreakEnd:   day.BreakEnd,
		Locations:  day.ActiveAssignments(),
	}
}

// Validate performs the cheap checks that must refuse a request before any
// scheduling work happens.
func (c PlanningConfig) Validate() error {
	if c.AgentID == 0 {
		return fmt.Errorf("no agent selected")
	}
	assigned := 0
	for _, a := range c.Locations {
		if a.LocationID != "" {
			assigned++
		}
	}
	if assigned == 0 {
		return fmt.Errorf("at least one location must be assigned before planning")
	}
	return nil
}

// LocationInfo is the location data the engine needs for placement, resolved
// from the locations table by the caller.
type LocationInfo struct {
	ID                  uint
	Name                string
	Surface             float64
	CleaningCoefficient float64
	Type                models.LocationType
}

// TaskPreview is one placed task inside a computed timeline.
type TaskPreview struct {
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	StartTime    string          `json:"start_time"`
	EndTime      string          `json:"end_time"`
	Duration     int             `json:"duration"` // minutes
	Priority     int             `json:"priority"`
	TimeSlot     models.TimeSlot `json:"time_slot"`
}

// PlanningPreview is the transient result of a preview computation. Conflicts
// are hard errors blocking generation; warnings never block.
type PlanningPreview struct {
	TotalDuration int           `json:"total_duration"` // minutes
	Tasks         []TaskPreview `json:"tasks"`
	Conflicts     []string      `json:"conflicts"`
	Warnings      []string      `json:"warnings"`
}

// HasConflicts reports whether the preview blocks generation.
func (p PlanningPreview) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

type window struct {
	start, end int
}

// slotWindow computes the admissible placement window for a time slot given
// the workday [workStart, workEnd] and an optional break [breakStart, breakEnd].
// hasBreak gates the break-relative slots.
func slotWindow(slot models.TimeSlot, workStart, workEnd int, hasBreak bool, breakStart, breakEnd int) (window, error) {
	switch slot {
	case models.SlotMorning:
		end := middayMinutes
		if hasBreak && breakStart < end {
			end = breakStart
		}
		if end > workEnd {
			end = workEnd
		}
		return window{workStart, end}, nil
	case models.SlotBeforeBreak:
		if !hasBreak {
			return window{}, fmt.Errorf("requires a lunch break but none is configured")
		}
		return window{workStart, breakStart}, nil
	case models.SlotAfterBreak:
		if !hasBreak {
			return window{}, fmt.Errorf("requires a lunch break but none is configured")
		}
		return window{breakEnd, workEnd}, nil
	case models.SlotAfternoon:
		start := middayMinutes
		if hasBreak && breakEnd > start {
			start = breakEnd
		}
		if start < workStart {
			start = workStart
		}
		return window{start, workEnd}, nil
	case models.SlotFlexible:
		return window{workStart, workEnd}, nil
	default:
		return window{}, fmt.Errorf("unknown time slot %q", slot)
	}
}

// BuildPreview allocates the configuration's assignments into the workday and
// reports the resulting timeline with conflict and warning diagnostics. It is
// pure: location data comes resolved through locs, keyed by assignment
// LocationID.
func BuildPreview(cfg PlanningConfig, locs map[string]LocationInfo) PlanningPreview {
	preview := PlanningPreview{
		Tasks:     []TaskPreview{},
		Conflicts: []string{},
		Warnings:  []string{},
	}

	workStart, err := utils.ParseClock(cfg.WorkStart)
	if err != nil {
		preview.Conflicts = append(preview.Conflicts, fmt.Sprintf("invalid work start: %v", err))
	}
	workEnd, err := utils.ParseClock(cfg.WorkEnd)
	if err != nil {
		preview.Conflicts = append(preview.Conflicts, fmt.Sprintf("invalid work end: %v", err))
	}
	if len(preview.Conflicts) > 0 {
		return preview
	}
	if workStart >= workEnd {
		preview.Conflicts = append(preview.Conflicts, fmt.Sprintf("work start %s must be before work end %s", cfg.WorkStart, cfg.WorkEnd))
		return preview
	}

	hasBreak := false
	breakStart, breakEnd := 0, 0
	switch {
	case cfg.BreakStart != nil && cfg.BreakEnd != nil:
		breakStart, err = utils.ParseClock(*cfg.BreakStart)
		if err != nil {
			preview.Conflicts = append(preview.Conflicts, fmt.Sprintf("invalid break start: %v", err))
			return preview
		}
		breakEnd, err = utils.ParseClock(*cfg.BreakEnd)
		if err != nil {
			preview.Conflicts = append(preview.Conflicts, fmt.Sprintf("invalid break end: %v", err))
			return preview
		}
		if breakStart >= breakEnd {
			preview.Conflicts = append(preview.Conflicts, fmt.Sprintf("break start %s must be before break end %s", *cfg.BreakStart, *cfg.BreakEnd))
			return preview
		}
		if breakStart < workStart || breakEnd > workEnd {
			preview.Conflicts = append(preview.Conflicts, "break must lie within the workday")
			return preview
		}
		hasBreak = true
	case cfg.BreakStart != nil || cfg.BreakEnd != nil:
		preview.Conflicts = append(preview.Conflicts, "break start and break end must both be set, or neither")
		return preview
	}

	assignments := make([]models.LocationAssignment, 0, len(cfg.Locations))
	for _, a := range cfg.Locations {
		if a.LocationID != "" {
			assignments = append(assignments, a)
		}
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].Priority < assignments[j].Priority
	})

	cursor := workStart
	for _, a := range assignments {
		loc, ok := locs[a.LocationID]
		if !ok {
			preview.Conflicts = append(preview.Conflicts, fmt.Sprintf("unknown location %q (priority %d)", a.LocationID, a.Priority))
			continue
		}

		duration := 0
		if a.EstimatedDuration != nil && *a.EstimatedDuration > 0 {
			duration = *a.EstimatedDuration
			if duration < 15 {
				preview.Warnings = append(preview.Warnings, fmt.Sprintf("%s: duration override of %d min is unusually short", loc.Name, duration))
			}
		} else {
			var usedFallback bool
			duration, usedFallback = defaultDuration(loc)
			if usedFallback {
				preview.Warnings = append(preview.Warnings, fmt.Sprintf("%s: no surface data, using the %s fallback duration of %d min", loc.Name, loc.Type, duration))
			}
		}

		win, err := slotWindow(a.TimeSlot, workStart, workEnd, hasBreak, breakStart, breakEnd)
		if err != nil {
			preview.Conflicts = append(preview.Conflicts, fmt.Sprintf("%s: %v", loc.Name, err))
			continue
		}

		start := cursor
		if start < win.start {
			start = win.start
		}
		// A task may not straddle the lunch break; push it past the break.
		if hasBreak && start < breakEnd && start+duration > breakStart {
			start = breakEnd
		}
		end := start + duration
		if end > win.end {
			preview.Conflicts = append(preview.Conflicts, fmt.Sprintf("%s (%d min, %s) does not fit its %s window %s-%s",
				loc.Name, duration, models.SlotDescriptions[a.TimeSlot], a.TimeSlot,
				utils.FormatClock(win.start), utils.FormatClock(win.end)))
			continue
		}
		if end > workEnd {
			preview.Conflicts = append(preview.Conflicts, fmt.Sprintf("%s would end at %s, past the end of the workday", loc.Name, utils.FormatClock(end)))
			continue
		}

		idle := start - cursor
		if hasBreak && cursor <= breakStart && start >= breakEnd {
			idle -= breakEnd - breakStart
		}
		if idle >= 60 {
			preview.Warnings = append(preview.Warnings, fmt.Sprintf("%d min idle gap before %s", idle, loc.Name))
		}

		preview.Tasks = append(preview.Tasks, TaskPreview{
			LocationID:   a.LocationID,
			LocationName: loc.Name,
			StartTime:    utils.FormatClock(start),
			EndTime:      utils.FormatClock(end),
			Duration:     duration,
			Priority:     a.Priority,
			TimeSlot:     a.TimeSlot,
		})
		preview.TotalDuration += duration
		cursor = end
	}

	available := workEnd - workStart
	if hasBreak {
		available -= breakEnd - breakStart
	}
	if available > 0 && preview.TotalDuration*10 > available*9 {
		preview.Warnings = append(preview.Warnings, fmt.Sprintf("planned work (%d min) uses over 90%% of the available %d min", preview.TotalDuration, available))
	}

	return preview
}

func defaultDuration(loc LocationInfo) (int, bool) {
	l := models.Location{
		Surface:             loc.Surface,
		CleaningCoefficient: loc.CleaningCoefficient,
		Type:                loc.Type,
	}
	return l.DefaultDuration()
}
