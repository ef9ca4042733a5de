package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/propretech/cleanops-app/db"
	"github.com/propretech/cleanops-app/models"
	"github.com/propretech/cleanops-app/redis"
)

const overviewCacheTTL = 60 * time.Second

type dashboardOverview struct {
	TasksToday      int64     `json:"tasks_today"`
	PendingCount    int64     `json:"pending_count"`
	InProgressCount int64     `json:"in_progress_count"`
	CompletedCount  int64     `json:"completed_count"`
	SkippedCount    int64     `json:"skipped_count"`
	TotalLocations  int64     `json:"total_locations"`
	TotalAgents     int64     `json:"total_agents"`
	PlannedMinutes  int64     `json:"planned_minutes"`
	LastUpdated     time.Time `json:"last_updated"`
}

// GetDashboardOverview returns today's numbers for the caller's scope:
// agents see their own day, admins their organization, superadmins everything.
// Results are cached briefly in Redis.
func GetDashboardOverview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User role not found in context",
		})
	}
	orgID, _ := callerOrg(c)

	cacheKey := fmt.Sprintf("dashboard:overview:%d:%s:%d", orgID, role, userID)
	var cached dashboardOverview
	if found, err := redis.GetJSON(cacheKey, &cached); err == nil && found {
		return c.JSON(cached)
	}

	// gorm chains are single-use, so each query starts from a fresh scope.
	today := datatypes.Date(time.Now())
	taskScope := func() *gorm.DB {
		q := db.DB.Model(&models.Task{}).Where("date = ?", today)
		if role == models.RoleAgent {
			q = q.Where("agent_id = ?", userID)
		}
		if orgID != 0 {
			q = q.Where("tasks.organization_id = ?", orgID)
		}
		return q
	}
	locationQuery := db.DB.Model(&models.Location{})
	agentQuery := db.DB.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", models.RoleAgent)
	if orgID != 0 {
		locationQuery = locationQuery.Where("organization_id = ?", orgID)
		agentQuery = agentQuery.Where("users.organization_id = ?", orgID)
	}

	var overview dashboardOverview
	taskScope().Count(&overview.TasksToday)
	taskScope().Where("status = ?", models.TaskPending).Count(&overview.PendingCount)
	taskScope().Where("status = ?", models.TaskInProgress).Count(&overview.InProgressCount)
	taskScope().Where("status = ?", models.TaskCompleted).Count(&overview.CompletedCount)
	taskScope().Where("status = ?", models.TaskSkipped).Count(&overview.SkippedCount)
	locationQuery.Count(&overview.TotalLocations)
	agentQuery.Count(&overview.TotalAgents)

	type durationSum struct {
		Total int64
	}
	var sum durationSum
	taskScope().Select("COALESCE(SUM(duration), 0) as total").Scan(&sum)
	overview.PlannedMinutes = sum.Total
	overview.LastUpdated = time.Now()

	if err := redis.SetJSON(cacheKey, overview, overviewCacheTTL); err != nil {
		// Cache miss is not worth failing the request over.
		fmt.Println("dashboard cache write failed:", err)
	}

	return c.JSON(overview)
}

// GetWeeklySummary reports per-day task counts for the current week, the
// admin's planning board backdrop.
func GetWeeklySummary(c *fiber.Ctx) error {
	orgID, _ := callerOrg(c)

	now := time.Now()
	// Roll back to the week's sunday, matching the effective-day indexing.
	start := now.AddDate(0, 0, -int(now.Weekday()))

	type daySummary struct {
		Day        string `json:"day"`
		Date       string `json:"date"`
		TaskCount  int64  `json:"task_count"`
		TotalMins  int64  `json:"total_minutes"`
		AgentCount int64  `json:"agent_count"`
	}
	summaries := make([]daySummary, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		dayScope := func() *gorm.DB {
			q := db.DB.Model(&models.Task{}).Where("date = ?", datatypes.Date(date))
			if orgID != 0 {
				q = q.Where("organization_id = ?", orgID)
			}
			return q
		}
		var s daySummary
		s.Day = models.WeekdayKeys[int(date.Weekday())]
		s.Date = date.Format("2006-01-02")
		dayScope().Count(&s.TaskCount)
		type agg struct {
			Total  int64
			Agents int64
		}
		var a agg
		dayScope().Select("COALESCE(SUM(duration), 0) as total, COUNT(DISTINCT agent_id) as agents").Scan(&a)
		s.TotalMins = a.Total
		s.AgentCount = a.Agents
		summaries = append(summaries, s)
	}

	return c.JSON(summaries)
}
