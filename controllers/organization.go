package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/propretech/cleanops-app/db"
	"github.com/propretech/cleanops-app/models"
	"github.com/propretech/cleanops-app/utils"
)

// GetAllOrganizations lists every tenant; superadmin only
func GetAllOrganizations(c *fiber.Ctx) error {
	var orgs []models.Organization
	if err := db.DB.Order("name asc").Find(&orgs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch organizations",
			Error:   err.Error(),
		})
	}
	return c.JSON(orgs)
}

// GetOrganization retrieves one organization
func GetOrganization(c *fiber.Ctx) error {
	var org models.Organization
	if err := db.DB.First(&org, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Organization not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(org)
}

// CreateOrganization registers a new tenant
func CreateOrganization(c *fiber.Ctx) error {
	org := new(models.Organization)
	if err := c.BodyParser(org); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if org.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Organization name is required",
			Error:   "missing name",
		})
	}
	if err := db.DB.Create(org).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create organization",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(org)
}

// UpdateOrganization updates tenant details, including the default template
// used by the morning auto-generation job
func UpdateOrganization(c *fiber.Ctx) error {
	var org models.Organization
	if err := db.DB.First(&org, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Organization not found",
			Error:   err.Error(),
		})
	}
	if err := c.BodyParser(&org); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if org.DefaultTemplateID != nil {
		var tpl models.PlanningTemplate
		if err := db.DB.Where("organization_id = ?", org.ID).
			First(&tpl, *org.DefaultTemplateID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Default template not found in this organization",
				Error:   err.Error(),
			})
		}
	}
	if err := db.DB.Save(&org).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update organization",
			Error:   err.Error(),
		})
	}
	return c.JSON(org)
}

// DeleteOrganization deactivates a tenant rather than dropping its history
func DeleteOrganization(c *fiber.Ctx) error {
	var org models.Organization
	if err := db.DB.First(&org, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Organization not found",
			Error:   err.Error(),
		})
	}
	org.IsActive = false
	if err := db.DB.Save(&org).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to deactivate organization",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
