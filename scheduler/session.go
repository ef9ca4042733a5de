package scheduler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/propretech/cleanops-app/models"
)

// PlanningSession is one agent's in-progress schedule draft. It holds either
// a weekly schedule or, after loading a legacy template, a single flat day.
// Sessions are serialized to Redis between requests, so every field is plain
// data.
type PlanningSession struct {
	AgentID   uint                  `json:"agent_id"`
	UseWeekly bool                  `json:"use_weekly"`
	Weekly    models.WeeklySchedule `json:"weekly,omitempty"`
	Day       models.DaySchedule    `json:"day,omitempty"`

	// PreviewSeq is the highest preview sequence recorded so far. Preview
	// requests are numbered within the session; a result carrying a lower
	// sequence arrived out of order and is discarded, so a slow earlier
	// preview can never overwrite a newer one.
	PreviewSeq uint64 `json:"preview_seq"`

	// CleanDigest is the digest of the most recent configuration whose
	// preview came back conflict-free. Commit requires the submitted
	// configuration to match it exactly.
	CleanDigest string `json:"clean_digest,omitempty"`
}

// NewPlanningSession starts a fresh weekly-mode draft with business defaults.
func NewPlanningSession(agentID uint) *PlanningSession {
	return &PlanningSession{
		AgentID:   agentID,
		UseWeekly: true,
		Weekly:    models.DefaultWeeklySchedule(),
	}
}

// ApplyTemplate replaces the draft with a template's schedule. A weekly
// template switches the session to weekly mode, a legacy one to single-day
// mode; in-progress edits in the abandoned mode are discarded.
func (s *PlanningSession) ApplyTemplate(t models.PlanningTemplate) error {
	switch t.Kind {
	case models.TemplateWeekly:
		if t.Weekly == nil {
			return fmt.Errorf("weekly template %q carries no schedule", t.Name)
		}
		s.UseWeekly = true
		s.Weekly = models.WeeklySchedule{}
		for key, day := range *t.Weekly {
			s.Weekly[key] = day.Clone()
		}
		s.Weekly.Normalize()
		s.Day = models.DaySchedule{}
	case models.TemplateLegacy:
		if t.Legacy == nil {
			return fmt.Errorf("legacy template %q carries no schedule", t.Name)
		}
		s.UseWeekly = false
		s.Day = t.Legacy.Clone()
		s.Weekly = nil
	default:
		return fmt.Errorf("unknown template kind %q", t.Kind)
	}
	s.CleanDigest = ""
	return nil
}

// MutateDay runs fn against the day schedule addressed by key. In single-day
// mode the one flat day is edited regardless of key. Any successful mutation
// invalidates the recorded clean preview.
func (s *PlanningSession) MutateDay(key string, fn func(*models.DaySchedule) error) error {
	if !s.UseWeekly {
		if err := fn(&s.Day); err != nil {
			return err
		}
		s.CleanDigest = ""
		return nil
	}
	if !models.IsWeekdayKey(key) {
		return fmt.Errorf("unknown weekday %q", key)
	}
	day := s.Weekly[key]
	if err := fn(&day); err != nil {
		return err
	}
	s.Weekly[key] = day
	s.CleanDigest = ""
	return nil
}

// EffectiveConfig resolves the configuration governing the given date: the
// matching weekday in weekly mode, the single flat day otherwise.
func (s *PlanningSession) EffectiveConfig(date time.Time) (PlanningConfig, error) {
	if !s.UseWeekly {
		return ConfigFromDay(s.AgentID, s.Day), nil
	}
	day, _, err := ResolveEffectiveDay(s.Weekly, date)
	if err != nil {
		return PlanningConfig{}, err
	}
	return ConfigFromDay(s.AgentID, day), nil
}

// NextPreviewSeq issues the sequence number for a preview request on behalf
// of clients that do not number their own.
func (s *PlanningSession) NextPreviewSeq() uint64 {
	s.PreviewSeq++
	return s.PreviewSeq
}

// RecordPreview notes the result of a preview computed under the given
// sequence number. A result below the latest recorded sequence is stale and
// ignored; the return reports whether the result was applied.
func (s *PlanningSession) RecordPreview(seq uint64, cfg PlanningConfig, preview PlanningPreview) bool {
	if seq < s.PreviewSeq {
		return false
	}
	s.PreviewSeq = seq
	if preview.HasConflicts() {
		s.CleanDigest = ""
	} else {
		s.CleanDigest = ConfigDigest(cfg)
	}
	return true
}

// CanCommit reports whether cfg was previewed conflict-free and is still the
// exact configuration on record.
func (s *PlanningSession) CanCommit(cfg PlanningConfig) bool {
	return s.CleanDigest != "" && s.CleanDigest == ConfigDigest(cfg)
}

// ConfigDigest fingerprints a configuration for preview/commit matching.
func ConfigDigest(cfg PlanningConfig) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
