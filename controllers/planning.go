package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/propretech/cleanops-app/db"
	"github.com/propretech/cleanops-app/models"
	"github.com/propretech/cleanops-app/redis"
	"github.com/propretech/cleanops-app/scheduler"
	"github.com/propretech/cleanops-app/utils"
)

const sessionTTL = 12 * time.Hour

func sessionKey(orgID, agentID uint) string {
	return fmt.Sprintf("planning:session:%d:%d", orgID, agentID)
}

// findAgent loads an agent inside the caller's organization.
func findAgent(c *fiber.Ctx, agentID uint) (*models.User, error) {
	query := db.DB.Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", models.RoleAgent)
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("users.organization_id = ?", orgID)
	}
	var agent models.User
	if err := query.First(&agent, agentID).Error; err != nil {
		return nil, fmt.Errorf("agent %d not found", agentID)
	}
	return &agent, nil
}

func loadSession(c *fiber.Ctx, agentID uint) (*models.User, *scheduler.PlanningSession, error) {
	agent, err := findAgent(c, agentID)
	if err != nil {
		return nil, nil, err
	}
	orgID, _ := callerOrg(c)
	var session scheduler.PlanningSession
	found, err := redis.GetJSON(sessionKey(orgID, agentID), &session)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load planning session: %w", err)
	}
	if !found {
		return agent, nil, nil
	}
	return agent, &session, nil
}

func saveSession(c *fiber.Ctx, session *scheduler.PlanningSession) error {
	orgID, _ := callerOrg(c)
	return redis.SetJSON(sessionKey(orgID, session.AgentID), session, sessionTTL)
}

// resolveLocations fetches the organization's locations referenced by the
// configuration, keyed by their string ID as carried in assignments.
func resolveLocations(c *fiber.Ctx, cfg scheduler.PlanningConfig) (map[string]scheduler.LocationInfo, error) {
	ids := make([]uint, 0, len(cfg.Locations))
	for _, a := range cfg.Locations {
		if a.LocationID == "" {
			continue
		}
		id, err := strconv.ParseUint(a.LocationID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid location reference %q", a.LocationID)
		}
		ids = append(ids, uint(id))
	}

	query := db.DB.Where("id IN (?)", ids)
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	var locations []models.Location
	if err := query.Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}

	locs := make(map[string]scheduler.LocationInfo, len(locations))
	for _, l := range locations {
		locs[strconv.FormatUint(uint64(l.ID), 10)] = scheduler.LocationInfo{
			ID:                  l.ID,
			Name:                l.Name,
			Surface:             l.Surface,
			CleaningCoefficient: l.CleaningCoefficient,
			Type:                l.Type,
		}
	}
	return locs, nil
}

// CreatePlanningSession starts (or resets) an agent's editing draft, fresh or
// loaded from a template. A weekly template puts the session in weekly mode,
// a legacy one in single-day mode.
func CreatePlanningSession(c *fiber.Ctx) error {
	agentID, err := c.ParamsInt("agentId")
	if err != nil || agentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid agent ID",
			Error:   "agentId must be a positive integer",
		})
	}
	agent, _, err := loadSession(c, uint(agentID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Agent not found",
			Error:   err.Error(),
		})
	}

	type SessionInput struct {
		TemplateID *uint `json:"template_id"`
	}
	input := new(SessionInput)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to parse request body",
				Error:   err.Error(),
			})
		}
	}

	session := scheduler.NewPlanningSession(agent.ID)
	if input.TemplateID != nil {
		var template models.PlanningTemplate
		query := db.DB
		if orgID, ok := callerOrg(c); ok {
			query = query.Where("organization_id = ?", orgID)
		}
		if err := query.First(&template, *input.TemplateID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Template not found",
				Error:   err.Error(),
			})
		}
		if err := session.ApplyTemplate(template); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to load template into session",
				Error:   err.Error(),
			})
		}
	}

	if err := saveSession(c, session); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save planning session",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// GetPlanningSession returns the agent's current draft
func GetPlanningSession(c *fiber.Ctx) error {
	agentID, err := c.ParamsInt("agentId")
	if err != nil || agentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid agent ID",
			Error:   "agentId must be a positive integer",
		})
	}
	_, session, err := loadSession(c, uint(agentID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Agent not found",
			Error:   err.Error(),
		})
	}
	if session == nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "No planning session for this agent",
			Error:   "session not found",
		})
	}
	return c.JSON(session)
}

// mutateSessionDay is the shared body of the four assignment operations.
func mutateSessionDay(c *fiber.Ctx, fn func(*models.DaySchedule) error) error {
	agentID, err := c.ParamsInt("agentId")
	if err != nil || agentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid agent ID",
			Error:   "agentId must be a positive integer",
		})
	}
	_, session, err := loadSession(c, uint(agentID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Agent not found",
			Error:   err.Error(),
		})
	}
	if session == nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "No planning session for this agent",
			Error:   "session not found",
		})
	}

	if err := session.MutateDay(c.Params("day"), fn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid schedule operation",
			Error:   err.Error(),
		})
	}
	if err := saveSession(c, session); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save planning session",
			Error:   err.Error(),
		})
	}
	return c.JSON(session)
}

// AddAssignment appends an unassigned flexible slot to the day
func AddAssignment(c *fiber.Ctx) error {
	return mutateSessionDay(c, func(day *models.DaySchedule) error {
		day.AddAssignment()
		return nil
	})
}

// UpdateAssignment patches the assignment at the given index
func UpdateAssignment(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid assignment index",
			Error:   err.Error(),
		})
	}
	patch := new(models.AssignmentPatch)
	if err := c.BodyParser(patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	return mutateSessionDay(c, func(day *models.DaySchedule) error {
		return day.UpdateAssignment(index, *patch)
	})
}

// RemoveAssignment deletes the assignment at the given index
func RemoveAssignment(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid assignment index",
			Error:   err.Error(),
		})
	}
	return mutateSessionDay(c, func(day *models.DaySchedule) error {
		return day.RemoveAssignment(index)
	})
}

// ReorderAssignments moves an assignment to a new position
func ReorderAssignments(c *fiber.Ctx) error {
	type ReorderInput struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	input := new(ReorderInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	return mutateSessionDay(c, func(day *models.DaySchedule) error {
		return day.Reorder(input.From, input.To)
	})
}

// CopyDayToWeek clones the named day onto the other six days of the week
func CopyDayToWeek(c *fiber.Ctx) error {
	agentID, err := c.ParamsInt("agentId")
	if err != nil || agentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid agent ID",
			Error:   "agentId must be a positive integer",
		})
	}
	_, session, err := loadSession(c, uint(agentID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Agent not found",
			Error:   err.Error(),
		})
	}
	if session == nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "No planning session for this agent",
			Error:   "session not found",
		})
	}
	if !session.UseWeekly {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Session is in single-day mode",
			Error:   "copy-to-week requires weekly mode",
		})
	}
	if err := session.Weekly.CopyDayToAllOthers(c.Params("day")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid weekday",
			Error:   err.Error(),
		})
	}
	session.CleanDigest = ""
	if err := saveSession(c, session); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save planning session",
			Error:   err.Error(),
		})
	}
	return c.JSON(session)
}

// planningRequest is the shared preview/generate body.
type planningRequest struct {
	AgentID         uint                      `json:"agent_id"`
	TemplateID      *uint                     `json:"template_id"`
	Config          *scheduler.PlanningConfig `json:"config"`
	ReplaceExisting bool                      `json:"replace_existing"`
	Date            string                    `json:"date"` // optional YYYY-MM-DD, defaults to today
	Seq             uint64                    `json:"seq"`  // client preview number; 0 lets the server issue one
}

func (r planningRequest) resolveDate() (time.Time, error) {
	if r.Date == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", r.Date)
}

// resolveConfig determines the effective configuration for a request:
// an inline config wins, then a template, then the agent's session draft.
func resolveConfig(c *fiber.Ctx, req planningRequest, date time.Time, session *scheduler.PlanningSession) (scheduler.PlanningConfig, error) {
	if req.Config != nil {
		cfg := *req.Config
		cfg.AgentID = req.AgentID
		return cfg, nil
	}
	if req.TemplateID != nil {
		var template models.PlanningTemplate
		query := db.DB
		if orgID, ok := callerOrg(c); ok {
			query = query.Where("organization_id = ?", orgID)
		}
		if err := query.First(&template, *req.TemplateID).Error; err != nil {
			return scheduler.PlanningConfig{}, fmt.Errorf("template %d not found", *req.TemplateID)
		}
		switch template.Kind {
		case models.TemplateWeekly:
			day, _, err := scheduler.ResolveEffectiveDay(*template.Weekly, date)
			if err != nil {
				return scheduler.PlanningConfig{}, err
			}
			return scheduler.ConfigFromDay(req.AgentID, day), nil
		default:
			return scheduler.ConfigFromDay(req.AgentID, *template.Legacy), nil
		}
	}
	if session != nil {
		return session.EffectiveConfig(date)
	}
	return scheduler.PlanningConfig{}, fmt.Errorf("no configuration: provide config, template_id, or start a planning session")
}

// PreviewPlanning computes the timeline for the effective day's configuration
// without touching persisted state. Clients number their preview requests via
// seq; a result below the session's latest recorded sequence arrived out of
// order and is not recorded, which the response reports via "recorded".
func PreviewPlanning(c *fiber.Ctx) error {
	req := new(planningRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	date, err := req.resolveDate()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid date, expected YYYY-MM-DD",
			Error:   err.Error(),
		})
	}

	_, session, err := loadSession(c, req.AgentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Agent not found",
			Error:   err.Error(),
		})
	}

	cfg, err := resolveConfig(c, *req, date, session)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Cannot preview planning",
			Error:   err.Error(),
		})
	}
	if err := cfg.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Cannot preview planning",
			Error:   err.Error(),
		})
	}

	locs, err := resolveLocations(c, cfg)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to resolve locations",
			Error:   err.Error(),
		})
	}

	preview := scheduler.BuildPreview(cfg, locs)

	seq := req.Seq
	recorded := false
	if session != nil {
		if seq == 0 {
			seq = session.NextPreviewSeq()
		}
		recorded = session.RecordPreview(seq, cfg, preview)
		if recorded {
			if err := saveSession(c, session); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
					Message: "Failed to save planning session",
					Error:   err.Error(),
				})
			}
		}
	}

	return c.JSON(fiber.Map{
		"seq":      seq,
		"recorded": recorded,
		"preview":  preview,
	})
}

// GeneratePlanning persists the effective configuration as concrete tasks.
// With an active session, a conflict-free preview of the exact same
// configuration must be on record.
func GeneratePlanning(c *fiber.Ctx) error {
	req := new(planningRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	date, err := req.resolveDate()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid date, expected YYYY-MM-DD",
			Error:   err.Error(),
		})
	}

	agent, session, err := loadSession(c, req.AgentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Agent not found",
			Error:   err.Error(),
		})
	}

	cfg, err := resolveConfig(c, *req, date, session)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Cannot generate planning",
			Error:   err.Error(),
		})
	}
	if err := cfg.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Cannot generate planning",
			Error:   err.Error(),
		})
	}

	if session != nil && !session.CanCommit(cfg) {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "A conflict-free preview of this configuration is required before generating",
			Error:   "no clean preview on record",
		})
	}

	locs, err := resolveLocations(c, cfg)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to resolve locations",
			Error:   err.Error(),
		})
	}

	orgID, _ := callerOrg(c)
	if orgID == 0 && agent.OrganizationID != nil {
		orgID = *agent.OrganizationID
	}
	result, err := scheduler.GeneratePlanning(db.DB, orgID, cfg, date, req.ReplaceExisting, locs)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Failed to generate planning",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        fmt.Sprintf("Planning generated for %s", date.Format("2006-01-02")),
		"tasks_created":  result.TasksCreated,
		"total_duration": result.TotalDuration,
		"warnings":       result.Warnings,
		"tasks":          result.Tasks,
	})
}

// DuplicatePlanning copies one agent's generated tasks onto another agent
func DuplicatePlanning(c *fiber.Ctx) error {
	type DuplicateInput struct {
		SourceAgentID uint   `json:"source_agent_id"`
		TargetAgentID uint   `json:"target_agent_id"`
		Date          string `json:"date"`
	}
	input := new(DuplicateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	// Local rule, checked before any lookup: no self-duplication.
	if err := scheduler.ValidateDuplication(input.SourceAgentID, input.TargetAgentID); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Cannot duplicate planning",
			Error:   err.Error(),
		})
	}

	date := time.Now()
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid date, expected YYYY-MM-DD",
				Error:   err.Error(),
			})
		}
		date = parsed
	}

	if _, err := findAgent(c, input.SourceAgentID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Source agent not found",
			Error:   err.Error(),
		})
	}
	target, err := findAgent(c, input.TargetAgentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Target agent not found",
			Error:   err.Error(),
		})
	}

	orgID, _ := callerOrg(c)
	if orgID == 0 && target.OrganizationID != nil {
		orgID = *target.OrganizationID
	}
	tasks, err := scheduler.DuplicatePlanning(db.DB, orgID, input.SourceAgentID, input.TargetAgentID, date)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: "Failed to duplicate planning",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       fmt.Sprintf("Planning duplicated to agent %d", input.TargetAgentID),
		"tasks_created": len(tasks),
		"tasks":         tasks,
	})
}

// DeleteAgentPlanning removes an agent's generated tasks for a date
func DeleteAgentPlanning(c *fiber.Ctx) error {
	agentID, err := c.ParamsInt("agentId")
	if err != nil || agentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid agent ID",
			Error:   "agentId must be a positive integer",
		})
	}
	if _, err := findAgent(c, uint(agentID)); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Agent not found",
			Error:   err.Error(),
		})
	}

	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid date, expected YYYY-MM-DD",
				Error:   err.Error(),
			})
		}
		date = parsed
	}

	deleted, err := scheduler.DeletePlanning(db.DB, uint(agentID), date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete planning",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message":       fmt.Sprintf("Planning deleted for %s", date.Format("2006-01-02")),
		"tasks_deleted": deleted,
	})
}
