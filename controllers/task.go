package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"github.com/propretech/cleanops-app/db"
	"github.com/propretech/cleanops-app/models"
	"github.com/propretech/cleanops-app/utils"
)

// GetTasks lists generated tasks, filterable by agent and date. Agents only
// ever see their own tasks.
func GetTasks(c *fiber.Ctx) error {
	query := db.DB.Preload("Location").Preload("Agent")
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("tasks.organization_id = ?", orgID)
	}

	role, _ := c.Locals("role").(string)
	if role == models.RoleAgent {
		userID, _ := c.Locals("userID").(uint)
		query = query.Where("agent_id = ?", userID)
	} else if agentID := c.QueryInt("agent_id"); agentID > 0 {
		query = query.Where("agent_id = ?", agentID)
	}

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid date, expected YYYY-MM-DD",
				Error:   err.Error(),
			})
		}
		query = query.Where("date = ?", datatypes.Date(date))
	}

	var tasks []models.Task
	if err := query.Order("date desc, priority asc").Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch tasks",
			Error:   err.Error(),
		})
	}
	return c.JSON(tasks)
}

// GetTask retrieves one task
func GetTask(c *fiber.Ctx) error {
	query := db.DB.Preload("Location").Preload("Agent")
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	var task models.Task
	if err := query.First(&task, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Task not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(task)
}

// UpdateTaskStatus moves a task through its lifecycle. Agents may only move
// their own tasks.
func UpdateTaskStatus(c *fiber.Ctx) error {
	type StatusInput struct {
		Status models.TaskStatus `json:"status"`
	}
	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	query := db.DB
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	var task models.Task
	if err := query.First(&task, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Task not found",
			Error:   err.Error(),
		})
	}

	if role, _ := c.Locals("role").(string); role == models.RoleAgent {
		if userID, _ := c.Locals("userID").(uint); task.AgentID != userID {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "You can only update your own tasks",
				Error:   "forbidden",
			})
		}
	}

	if err := task.UpdateStatus(db.DB, input.Status); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid status transition",
			Error:   err.Error(),
		})
	}
	return c.JSON(task)
}
