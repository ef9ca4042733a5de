package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/propretech/cleanops-app/db"
	"github.com/propretech/cleanops-app/models"
	"github.com/propretech/cleanops-app/utils"
)

// callerOrg returns the caller's organization scope. Superadmins carry no
// orgID local and see everything.
func callerOrg(c *fiber.Ctx) (uint, bool) {
	orgID, ok := c.Locals("orgID").(uint)
	return orgID, ok
}

// GetAllLocations retrieves the organization's locations
func GetAllLocations(c *fiber.Ctx) error {
	var locations []models.Location
	query := db.DB.Order("name asc")
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.Find(&locations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch locations",
			Error:   err.Error(),
		})
	}
	return c.JSON(locations)
}

// GetLocation retrieves a specific location by ID
func GetLocation(c *fiber.Ctx) error {
	var location models.Location
	query := db.DB
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.First(&location, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Location not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(location)
}

// CreateLocation creates a new location
func CreateLocation(c *fiber.Ctx) error {
	location := new(models.Location)
	if err := c.BodyParser(location); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if location.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Location name is required",
			Error:   "missing name",
		})
	}
	if orgID, ok := callerOrg(c); ok {
		location.OrganizationID = orgID
	}
	if err := db.DB.Create(location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create location",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

// UpdateLocation updates an existing location
func UpdateLocation(c *fiber.Ctx) error {
	var location models.Location
	query := db.DB
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.First(&location, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Location not found",
			Error:   err.Error(),
		})
	}
	if err := c.BodyParser(&location); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Save(&location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update location",
			Error:   err.Error(),
		})
	}
	return c.JSON(location)
}

// DeleteLocation deletes a location by ID
func DeleteLocation(c *fiber.Ctx) error {
	var location models.Location
	query := db.DB
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.First(&location, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Location not found",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Delete(&location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete location",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadLocationPhoto stores a photo for the location and saves its URL
func UploadLocationPhoto(c *fiber.Ctx) error {
	var location models.Location
	query := db.DB
	if orgID, ok := callerOrg(c); ok {
		query = query.Where("organization_id = ?", orgID)
	}
	if err := query.First(&location, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Location not found",
			Error:   err.Error(),
		})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "No photo file provided",
			Error:   err.Error(),
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to read photo file",
			Error:   err.Error(),
		})
	}
	defer file.Close()

	url, err := utils.UploadToCloudinary(file, fmt.Sprintf("location-%d", location.ID), "locations")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload photo",
			Error:   err.Error(),
		})
	}

	location.PhotoURL = url
	if err := db.DB.Save(&location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save photo URL",
			Error:   err.Error(),
		})
	}
	return c.JSON(location)
}
