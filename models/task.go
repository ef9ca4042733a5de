package models

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskSkipped    TaskStatus = "skipped"
)

// Task is one concrete generated cleaning task: an agent cleans a location on
// a date, in a planned time window. Rows are produced by planning generation
// (or duplication) and mutated only through status transitions afterwards.
type Task struct {
	gorm.Model
	OrganizationID uint           `json:"organization_id" gorm:"index"`
	AgentID        uint           `json:"agent_id" gorm:"index:idx_tasks_agent_date"`
	Agent          User           `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	LocationID     uint           `json:"location_id"`
	Location       Location       `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Date           datatypes.Date `json:"date" gorm:"index:idx_tasks_agent_date"`
	StartTime      string         `json:"start_time"` // "HH:MM" 24h
	EndTime        string         `json:"end_time"`
	Duration       int            `json:"duration"` // minutes
	Priority       int            `json:"priority"`
	TimeSlot       TimeSlot       `json:"time_slot" gorm:"size:20"`
	Status         TaskStatus     `json:"status" gorm:"size:20"`
	BatchID        string         `json:"batch_id" gorm:"size:40;index"` // one generation run
	Notes          string         `json:"notes"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = TaskPending
	}
	return nil
}

// UpdateStatus enforces the task lifecycle: pending may start or be skipped,
// an in-progress task may complete or be skipped, terminal states are frozen.
func (t *Task) UpdateStatus(tx *gorm.DB, newStatus TaskStatus) error {
	switch t.Status {
	case TaskPending:
		if newStatus != TaskInProgress && newStatus != TaskSkipped {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case TaskInProgress:
		if newStatus != TaskCompleted && newStatus != TaskSkipped {
			return fmt.Errorf("invalid transition from in_progress to %s", newStatus)
		}
	case TaskCompleted, TaskSkipped:
		return fmt.Errorf("no transitions allowed from %s", t.Status)
	default:
		return fmt.Errorf("unknown task status %s", t.Status)
	}

	t.Status = newStatus
	return tx.Save(t).Error
}
