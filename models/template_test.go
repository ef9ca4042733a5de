package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewWeeklyTemplate(t *testing.T) {
	ws := DefaultWeeklySchedule()
	tpl := NewWeeklyTemplate(7, "standard week", ws)

	if tpl.Kind != TemplateWeekly {
		t.Fatalf("expected weekly kind, got %q", tpl.Kind)
	}
	if tpl.Weekly == nil || tpl.Legacy != nil {
		t.Fatalf("expected only the weekly shape populated")
	}
	if err := tpl.validateShape(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewLegacyTemplate(t *testing.T) {
	tpl := NewLegacyTemplate(7, "old flat", DefaultDaySchedule())
	if tpl.Kind != TemplateLegacy {
		t.Fatalf("expected legacy kind, got %q", tpl.Kind)
	}
	if tpl.Legacy == nil || tpl.Weekly != nil {
		t.Fatalf("expected only the legacy shape populated")
	}
	if err := tpl.validateShape(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateShape_RejectsMixedShapes(t *testing.T) {
	ws := DefaultWeeklySchedule()
	day := DefaultDaySchedule()
	tpl := PlanningTemplate{Kind: TemplateWeekly, Weekly: &ws, Legacy: &day}
	if err := tpl.validateShape(); err == nil {
		t.Fatalf("expected error for template carrying both shapes")
	}

	tpl = PlanningTemplate{Kind: TemplateLegacy}
	if err := tpl.validateShape(); err == nil {
		t.Fatalf("expected error for legacy template without a day")
	}
}

func TestDecodeTemplateBody_Weekly(t *testing.T) {
	ws := DefaultWeeklySchedule()
	body, err := json.Marshal(map[string]interface{}{
		"name":   "week A",
		"weekly": ws,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tpl, err := DecodeTemplateBody(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.Kind != TemplateWeekly {
		t.Fatalf("expected weekly kind, got %q", tpl.Kind)
	}
	if tpl.Name != "week A" {
		t.Fatalf("expected name preserved, got %q", tpl.Name)
	}
	if !reflect.DeepEqual(*tpl.Weekly, ws) {
		t.Fatalf("weekly schedule not preserved")
	}
}

func TestDecodeTemplateBody_LegacyFlat(t *testing.T) {
	body := []byte(`{
		"name": "old shape",
		"work_start": "08:00",
		"work_end": "17:00",
		"break_start": "12:00",
		"break_end": "13:00",
		"locations": [
			{"location_id": "4", "priority": 2, "time_slot": "flexible"},
			{"location_id": "5", "priority": 9, "time_slot": "morning"}
		]
	}`)

	tpl, err := DecodeTemplateBody(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.Kind != TemplateLegacy {
		t.Fatalf("expected legacy kind, got %q", tpl.Kind)
	}
	if tpl.Legacy == nil {
		t.Fatalf("expected legacy day populated")
	}
	if tpl.Legacy.WorkStart != "08:00" || tpl.Legacy.WorkEnd != "17:00" {
		t.Fatalf("work hours not preserved: %+v", tpl.Legacy)
	}
	// Sparse wire priorities are renumbered on decode.
	for i, a := range tpl.Legacy.Locations {
		if a.Priority != i+1 {
			t.Fatalf("expected dense priorities, got %d at %d", a.Priority, i)
		}
	}
}

func TestDecodeTemplateBody_EmptyShape(t *testing.T) {
	if _, err := DecodeTemplateBody([]byte(`{"name": "nothing"}`)); err == nil {
		t.Fatalf("expected error for body with no schedule shape")
	}
}

func TestTemplateJSONRoundTrip(t *testing.T) {
	ws := DefaultWeeklySchedule()
	monday := ws["monday"]
	monday.AddAssignment()
	monday.Locations[0].LocationID = "11"
	ws["monday"] = monday
	tpl := NewWeeklyTemplate(3, "roundtrip", ws)

	data, err := json.Marshal(tpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := DecodeTemplateBody(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Kind != TemplateWeekly {
		t.Fatalf("expected weekly kind after round trip, got %q", decoded.Kind)
	}
	if !reflect.DeepEqual(*decoded.Weekly, *tpl.Weekly) {
		t.Fatalf("weekly schedule changed across round trip")
	}
}
