package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TimeSlot is a coarse placement constraint for a location assignment,
// consumed by the scheduler when it allocates the assignment into the workday.
type TimeSlot string

const (
	SlotMorning     TimeSlot = "morning"
	SlotBeforeBreak TimeSlot = "beforeBreak"
	SlotAfterBreak  TimeSlot = "afterBreak"
	SlotAfternoon   TimeSlot = "afternoon"
	SlotFlexible    TimeSlot = "flexible"
)

// SlotDescriptions maps each time slot to the constraint it imposes on placement.
var SlotDescriptions = map[TimeSlot]string{
	SlotMorning:     "Must be scheduled in the morning, before midday",
	SlotBeforeBreak: "Must finish before the lunch break starts",
	SlotAfterBreak:  "Must start after the lunch break ends",
	SlotAfternoon:   "Must be scheduled in the afternoon, after midday",
	SlotFlexible:    "May be scheduled anywhere in the workday",
}

// IsValid reports whether s is one of the known time slots.
func (s TimeSlot) IsValid() bool {
	_, ok := SlotDescriptions[s]
	return ok
}

// LocationAssignment is one location-cleaning entry inside a day schedule.
// LocationID may be empty while the schedule is being edited; it must be set
// before the schedule is submitted for preview or generation.
type LocationAssignment struct {
	LocationID        string   `json:"location_id"`
	Priority          int      `json:"priority"`
	TimeSlot          TimeSlot `json:"time_slot"`
	EstimatedDuration *int     `json:"estimated_duration,omitempty"` // minutes, overrides the computed default
	Constraints       []string `json:"constraints,omitempty"`
}

// DaySchedule is one calendar day's work template for an agent.
type DaySchedule struct {
	WorkStart  string               `json:"work_start"` // "HH:MM" 24h
	WorkEnd    string               `json:"work_end"`
	BreakStart *string              `json:"break_start,omitempty"` // both break bounds set, or neither
	BreakEnd   *string              `json:"break_end,omitempty"`
	Locations  []LocationAssignment `json:"locations"`
	IsActive   bool                 `json:"is_active"`
}

// Weekday keys of a WeeklySchedule, indexed by time.Weekday (Sunday = 0).
var WeekdayKeys = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeeklySchedule maps the seven weekday keys to a DaySchedule. A well-formed
// weekly schedule always carries all seven days.
type WeeklySchedule map[string]DaySchedule

// DefaultDaySchedule returns the business-week default: active 07:00-15:30
// with an 11:00-12:00 break and no assignments.
func DefaultDaySchedule() DaySchedule {
	breakStart, breakEnd := "11:00", "12:00"
	return DaySchedule{
		WorkStart:  "07:00",
		WorkEnd:    "15:30",
		BreakStart: &breakStart,
		BreakEnd:   &breakEnd,
		Locations:  []LocationAssignment{},
		IsActive:   true,
	}
}

// DefaultWeeklySchedule returns a full week: weekdays active with the default
// day template, weekend days present but inactive.
func DefaultWeeklySchedule() WeeklySchedule {
	ws := WeeklySchedule{}
	for _, key := range WeekdayKeys {
		day := DefaultDaySchedule()
		if key == "saturday" || key == "sunday" {
			day.IsActive = false
		}
		ws[key] = day
	}
	return ws
}

// Clone returns a deep copy of the day schedule.
func (d DaySchedule) Clone() DaySchedule {
	out := d
	if d.BreakStart != nil {
		v := *d.BreakStart
		out.BreakStart = &v
	}
	if d.BreakEnd != nil {
		v := *d.BreakEnd
		out.BreakEnd = &v
	}
	out.Locations = make([]LocationAssignment, len(d.Locations))
	for i, a := range d.Locations {
		out.Locations[i] = a.clone()
	}
	return out
}

func (a LocationAssignment) clone() LocationAssignment {
	out := a
	if a.EstimatedDuration != nil {
		v := *a.EstimatedDuration
		out.EstimatedDuration = &v
	}
	if a.Constraints != nil {
		out.Constraints = append([]string(nil), a.Constraints...)
	}
	return out
}

// renumber rewrites priorities to 1..N in current order. Every mutation that
// can change ordering goes through this, so the scheduler never sees duplicate
// or sparse priorities.
func (d *DaySchedule) renumber() {
	for i := range d.Locations {
		d.Locations[i].Priority = i + 1
	}
}

// AddAssignment appends an empty flexible assignment with the next priority.
func (d *DaySchedule) AddAssignment() {
	max := 0
	for _, a := range d.Locations {
		if a.Priority > max {
			max = a.Priority
		}
	}
	d.Locations = append(d.Locations, LocationAssignment{
		LocationID: "",
		Priority:   max + 1,
		TimeSlot:   SlotFlexible,
	})
}

// AssignmentPatch carries the fields of an assignment that may be updated in
// place. Nil fields are left untouched.
type AssignmentPatch struct {
	LocationID        *string   `json:"location_id,omitempty"`
	TimeSlot          *TimeSlot `json:"time_slot,omitempty"`
	EstimatedDuration *int      `json:"estimated_duration,omitempty"`
	ClearDuration     bool      `json:"clear_duration,omitempty"`
	Constraints       *[]string `json:"constraints,omitempty"`
}

// UpdateAssignment applies patch to the assignment at index. Priorities are
// not renumbered: an in-place field edit cannot change ordering.
func (d *DaySchedule) UpdateAssignment(index int, patch AssignmentPatch) error {
	if index < 0 || index >= len(d.Locations) {
		return fmt.Errorf("assignment index %d out of range [0,%d)", index, len(d.Locations))
	}
	a := &d.Locations[index]
	if patch.LocationID != nil {
		a.LocationID = *patch.LocationID
	}
	if patch.TimeSlot != nil {
		if !patch.TimeSlot.IsValid() {
			return fmt.Errorf("unknown time slot %q", *patch.TimeSlot)
		}
		a.TimeSlot = *patch.TimeSlot
	}
	if patch.ClearDuration {
		a.EstimatedDuration = nil
	} else if patch.EstimatedDuration != nil {
		v := *patch.EstimatedDuration
		a.EstimatedDuration = &v
	}
	if patch.Constraints != nil {
		a.Constraints = append([]string(nil), (*patch.Constraints)...)
	}
	return nil
}

// RemoveAssignment deletes the assignment at index and closes the priority gap.
func (d *DaySchedule) RemoveAssignment(index int) error {
	if index < 0 || index >= len(d.Locations) {
		return fmt.Errorf("assignment index %d out of range [0,%d)", index, len(d.Locations))
	}
	d.Locations = append(d.Locations[:index], d.Locations[index+1:]...)
	d.renumber()
	return nil
}

// Reorder moves the assignment at from to position to (remove-then-insert)
// and renumbers priorities in the new order.
func (d *DaySchedule) Reorder(from, to int) error {
	n := len(d.Locations)
	if from < 0 || from >= n {
		return fmt.Errorf("source index %d out of range [0,%d)", from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("target index %d out of range [0,%d)", to, n)
	}
	if from == to {
		d.renumber()
		return nil
	}
	moved := d.Locations[from]
	rest := append(d.Locations[:from:from], d.Locations[from+1:]...)
	d.Locations = append(rest[:to:to], append([]LocationAssignment{moved}, rest[to:]...)...)
	d.renumber()
	return nil
}

// ActiveAssignments returns the assignments carrying a non-empty location
// reference, in priority order. Empty slots are editing artifacts and are
// never submitted to the scheduler.
func (d DaySchedule) ActiveAssignments() []LocationAssignment {
	out := make([]LocationAssignment, 0, len(d.Locations))
	for _, a := range d.Locations {
		if a.LocationID != "" {
			out = append(out, a.clone())
		}
	}
	return out
}

// CopyDayToAllOthers overwrites the other six days with a deep copy of the
// source day. The source day itself is left untouched; prior configuration in
// the target days is discarded wholesale.
func (ws WeeklySchedule) CopyDayToAllOthers(sourceDay string) error {
	src, ok := ws[sourceDay]
	if !ok {
		return fmt.Errorf("unknown weekday %q", sourceDay)
	}
	for _, key := range WeekdayKeys {
		if key == sourceDay {
			continue
		}
		ws[key] = src.Clone()
	}
	return nil
}

// Normalize fills in any missing weekday with an inactive default day, so a
// schedule decoded from an older payload is always fully populated.
func (ws WeeklySchedule) Normalize() {
	for _, key := range WeekdayKeys {
		if _, ok := ws[key]; !ok {
			day := DefaultDaySchedule()
			day.IsActive = false
			ws[key] = day
		}
	}
}

// IsWeekdayKey reports whether key names one of the seven weekday slots.
func IsWeekdayKey(key string) bool {
	for _, k := range WeekdayKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer so a WeeklySchedule persists as JSONB.
func (ws WeeklySchedule) Value() (driver.Value, error) {
	data, err := json.Marshal(ws)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (ws *WeeklySchedule) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal WeeklySchedule: unsupported type %T", value)
	}
	if err := json.Unmarshal(data, ws); err != nil {
		return err
	}
	ws.Normalize()
	return nil
}

// Value implements driver.Valuer so a DaySchedule persists as JSONB.
func (d DaySchedule) Value() (driver.Value, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (d *DaySchedule) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal DaySchedule: unsupported type %T", value)
	}
	return json.Unmarshal(data, d)
}
