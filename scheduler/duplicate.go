package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/propretech/cleanops-app/models"
)

// ValidateDuplication enforces the one local rule of duplication: an agent's
// schedule cannot be copied onto itself. Checked before any database work.
func ValidateDuplication(sourceAgentID, targetAgentID uint) error {
	if sourceAgentID == 0 || targetAgentID == 0 {
		return fmt.Errorf("both source and target agents must be selected")
	}
	if sourceAgentID == targetAgentID {
		return fmt.Errorf("source and target agents must differ")
	}
	return nil
}

// DuplicatePlanning copies one agent's generated tasks for a date onto
// another agent. Copies start over as pending tasks in a fresh batch.
func DuplicatePlanning(db *gorm.DB, orgID, sourceAgentID, targetAgentID uint, date time.Time) ([]models.Task, error) {
	if err := ValidateDuplication(sourceAgentID, targetAgentID); err != nil {
		return nil, err
	}

	taskDate := datatypes.Date(date)
	var source []models.Task
	if err := db.Where("agent_id = ? AND date = ?", sourceAgentID, taskDate).
		Order("priority asc").Find(&source).Error; err != nil {
		return nil, fmt.Errorf("failed to load source planning: %w", err)
	}
	if len(source) == 0 {
		return nil, fmt.Errorf("source agent has no generated tasks for that date")
	}

	batchID := uuid.NewString()
	copies := make([]models.Task, 0, len(source))
	for _, t := range source {
		copies = append(copies, models.Task{
			OrganizationID: orgID,
			AgentID:        targetAgentID,
			LocationID:     t.LocationID,
			Date:           t.Date,
			StartTime:      t.StartTime,
			EndTime:        t.EndTime,
			Duration:       t.Duration,
			Priority:       t.Priority,
			TimeSlot:       t.TimeSlot,
			Status:         models.TaskPending,
			BatchID:        batchID,
		})
	}
	if err := db.Create(&copies).Error; err != nil {
		return nil, fmt.Errorf("failed to duplicate planning: %w", err)
	}
	return copies, nil
}
