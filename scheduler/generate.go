package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/propretech/cleanops-app/models"
)

// GenerateResult is the outcome of persisting a planning run.
type GenerateResult struct {
	TasksCreated  int           `json:"tasks_created"`
	TotalDuration int           `json:"total_duration"`
	Warnings      []string      `json:"warnings"`
	Tasks         []models.Task `json:"tasks"`
}

// GeneratePlanning turns a conflict-free configuration into concrete Task
// rows for the given date, inside one transaction. With replaceExisting the
// agent's existing tasks for that date are deleted first; generation is
// all-or-nothing either way.
func GeneratePlanning(db *gorm.DB, orgID uint, cfg PlanningConfig, date time.Time, replaceExisting bool, locs map[string]LocationInfo) (GenerateResult, error) {
	preview := BuildPreview(cfg, locs)
	if preview.HasConflicts() {
		return GenerateResult{}, fmt.Errorf("cannot generate planning with conflicts: %s", strings.Join(preview.Conflicts, "; "))
	}
	if len(preview.Tasks) == 0 {
		return GenerateResult{}, fmt.Errorf("nothing to generate: no task could be placed")
	}

	batchID := uuid.NewString()
	taskDate := datatypes.Date(date)
	tasks := make([]models.Task, 0, len(preview.Tasks))
	for _, tp := range preview.Tasks {
		locID, err := strconv.ParseUint(tp.LocationID, 10, 64)
		if err != nil {
			return GenerateResult{}, fmt.Errorf("invalid location reference %q: %w", tp.LocationID, err)
		}
		tasks = append(tasks, models.Task{
			OrganizationID: orgID,
			AgentID:        cfg.AgentID,
			LocationID:     uint(locID),
			Date:           taskDate,
			StartTime:      tp.StartTime,
			EndTime:        tp.EndTime,
			Duration:       tp.Duration,
			Priority:       tp.Priority,
			TimeSlot:       tp.TimeSlot,
			Status:         models.TaskPending,
			BatchID:        batchID,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if replaceExisting {
			if err := tx.Where("agent_id = ? AND date = ?", cfg.AgentID, taskDate).Delete(&models.Task{}).Error; err != nil {
				return fmt.Errorf("failed to replace existing tasks: %w", err)
			}
		}
		if err := tx.Create(&tasks).Error; err != nil {
			return fmt.Errorf("failed to create tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return GenerateResult{}, err
	}

	return GenerateResult{
		TasksCreated:  len(tasks),
		TotalDuration: preview.TotalDuration,
		Warnings:      preview.Warnings,
		Tasks:         tasks,
	}, nil
}

// DeletePlanning removes an agent's generated tasks for a date and reports
// how many rows went away.
func DeletePlanning(db *gorm.DB, agentID uint, date time.Time) (int64, error) {
	res := db.Where("agent_id = ? AND date = ?", agentID, datatypes.Date(date)).Delete(&models.Task{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
