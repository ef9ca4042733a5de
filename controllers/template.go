package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propretech/cleanops-app/db"
	"github.com/propretech/cleanops-app/models"
	"github.com/propretech/cleanops-app/utils"
)

// GetAllTemplates lists the organization's planning templates
func GetAllTemplates(c *fiber.Ctx) error {
	var templates []models.PlanningTemplate
	query := db.DB.Order("name asc")
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.Find(&templates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch templates",
			Error:   err.Error(),
		})
	}
	return c.JSON(templates)
}

// GetTemplate retrieves one template
func GetTemplate(c *fiber.Ctx) error {
	var template models.PlanningTemplate
	query := db.DB
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.First(&template, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Template not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(template)
}

// CreateTemplate saves a new named schedule configuration. Both the weekly
// shape and the legacy flat single-day shape are accepted on the wire.
func CreateTemplate(c *fiber.Ctx) error {
	template, err := models.DecodeTemplateBody(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid template body",
			Error:   err.Error(),
		})
	}
	if template.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Template name is required",
			Error:   "missing name",
		})
	}
	if orgID, ok := callerOrg(c); ok {
		template.OrganizationID = orgID
	}
	if err := db.DB.Create(&template).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create template",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(template)
}

// UpdateTemplate replaces a template's schedule wholesale
func UpdateTemplate(c *fiber.Ctx) error {
	var existing models.PlanningTemplate
	query := db.DB
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.First(&existing, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Template not found",
			Error:   err.Error(),
		})
	}

	updated, err := models.DecodeTemplateBody(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid template body",
			Error:   err.Error(),
		})
	}
	if updated.Name != "" {
		existing.Name = updated.Name
	}
	existing.Description = updated.Description
	existing.IsDefault = updated.IsDefault
	existing.Kind = updated.Kind
	existing.Weekly = updated.Weekly
	existing.Legacy = updated.Legacy

	if err := db.DB.Save(&existing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update template",
			Error:   err.Error(),
		})
	}
	return c.JSON(existing)
}

// DeleteTemplate deletes a template by ID
func DeleteTemplate(c *fiber.Ctx) error {
	var template models.PlanningTemplate
	query := db.DB
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.First(&template, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Template not found",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Delete(&template).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete template",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
