package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// TemplateKind discriminates the two persisted template shapes.
type TemplateKind string

const (
	// TemplateWeekly is the current shape: a full seven-day schedule.
	TemplateWeekly TemplateKind = "weekly"
	// TemplateLegacy is the read-compatible flat single-day shape used by
	// templates created before weekly scheduling existed. New templates are
	// never written in this shape.
	TemplateLegacy TemplateKind = "legacy"
)

// PlanningTemplate is a named, reusable schedule configuration owned by an
// organization. Exactly one of Weekly or Legacy is populated, matching Kind.
type PlanningTemplate struct {
	gorm.Model
	OrganizationID uint            `json:"organization_id" gorm:"index"`
	Name           string          `json:"name" gorm:"not null"`
	Description    string          `json:"description"`
	Kind           TemplateKind    `json:"kind" gorm:"size:10;not null"`
	Weekly         *WeeklySchedule `json:"weekly,omitempty" gorm:"type:jsonb"`
	Legacy         *DaySchedule    `json:"legacy,omitempty" gorm:"type:jsonb"`
	IsDefault      bool            `json:"is_default" gorm:"default:false"`
}

// NewWeeklyTemplate builds a weekly-shaped template.
func NewWeeklyTemplate(orgID uint, name string, schedule WeeklySchedule) PlanningTemplate {
	schedule.Normalize()
	return PlanningTemplate{
		OrganizationID: orgID,
		Name:           name,
		Kind:           TemplateWeekly,
		Weekly:         &schedule,
	}
}

// NewLegacyTemplate builds a flat single-day template. Only used when
// rehydrating pre-weekly payloads; never the write target for new templates.
func NewLegacyTemplate(orgID uint, name string, day DaySchedule) PlanningTemplate {
	return PlanningTemplate{
		OrganizationID: orgID,
		Name:           name,
		Kind:           TemplateLegacy,
		Legacy:         &day,
	}
}

// BeforeSave keeps Kind and the populated shape consistent.
func (t *PlanningTemplate) BeforeSave(tx *gorm.DB) error {
	return t.validateShape()
}

func (t *PlanningTemplate) validateShape() error {
	switch t.Kind {
	case TemplateWeekly:
		if t.Weekly == nil || t.Legacy != nil {
			return fmt.Errorf("weekly template must carry exactly the weekly shape")
		}
	case TemplateLegacy:
		if t.Legacy == nil || t.Weekly != nil {
			return fmt.Errorf("legacy template must carry exactly the flat day shape")
		}
	default:
		return fmt.Errorf("unknown template kind %q", t.Kind)
	}
	return nil
}

// templatePayload mirrors the wire shape of a template body. Legacy clients
// send the flat day fields at the top level with no kind marker, so decoding
// sniffs the shape instead of trusting a discriminator.
type templatePayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	IsDefault   bool            `json:"is_default"`
	Kind        TemplateKind    `json:"kind"`
	Weekly      *WeeklySchedule `json:"weekly"`

	// legacy flat fields
	WorkStart  string               `json:"work_start"`
	WorkEnd    string               `json:"work_end"`
	BreakStart *string              `json:"break_start"`
	BreakEnd   *string              `json:"break_end"`
	Locations  []LocationAssignment `json:"locations"`
}

// DecodeTemplateBody parses a create/update request body, accepting both the
// weekly shape and the legacy flat shape.
func DecodeTemplateBody(body []byte) (PlanningTemplate, error) {
	var p templatePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return PlanningTemplate{}, fmt.Errorf("cannot parse template body: %w", err)
	}
	t := PlanningTemplate{
		Name:        p.Name,
		Description: p.Description,
		IsDefault:   p.IsDefault,
	}
	switch {
	case p.Weekly != nil:
		p.Weekly.Normalize()
		t.Kind = TemplateWeekly
		t.Weekly = p.Weekly
	case p.WorkStart != "" && p.WorkEnd != "":
		day := DaySchedule{
			WorkStart:  p.WorkStart,
			WorkEnd:    p.WorkEnd,
			BreakStart: p.BreakStart,
			BreakEnd:   p.BreakEnd,
			Locations:  p.Locations,
			IsActive:   true,
		}
		day.renumber()
		t.Kind = TemplateLegacy
		t.Legacy = &day
	default:
		return PlanningTemplate{}, fmt.Errorf("template body carries neither a weekly schedule nor flat day fields")
	}
	return t, t.validateShape()
}
