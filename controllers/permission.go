package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propretech/cleanops-app/db"
	"github.com/propretech/cleanops-app/models"
	"github.com/propretech/cleanops-app/utils"
)

// Roles and permissions are platform-global: the three built-in roles are
// seeded at migration time and shared by every organization, so listings are
// not org-scoped. Only user-role assignment touches tenant data.

// CreateRole creates a new role
func CreateRole(c *fiber.Ctx) error {
	role := new(models.Role)
	if err := c.BodyParser(role); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if role.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Role name is required",
			Error:   "missing name",
		})
	}

	var existing models.Role
	if db.DB.Where("name = ?", role.Name).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Role with this name already exists",
			Error:   "duplicate role",
		})
	}

	if err := db.DB.Create(&role).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create role",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

// GetRoles returns all roles
func GetRoles(c *fiber.Ctx) error {
	var roles []models.Role
	if err := db.DB.Order("name asc").Find(&roles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch roles",
			Error:   err.Error(),
		})
	}
	return c.JSON(roles)
}

// CreatePermission creates a new permission
func CreatePermission(c *fiber.Ctx) error {
	permission := new(models.Permission)
	if err := c.BodyParser(permission); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if permission.Name == "" || permission.Resource == "" || permission.Action == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Name, resource, and action are required",
			Error:   "missing fields",
		})
	}

	var existing models.Permission
	if db.DB.Where("name = ?", permission.Name).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Permission with this name already exists",
			Error:   "duplicate permission",
		})
	}

	if err := db.DB.Create(&permission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create permission",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(permission)
}

// GetPermissions returns all permissions
func GetPermissions(c *fiber.Ctx) error {
	var permissions []models.Permission
	if err := db.DB.Order("resource asc, action asc").Find(&permissions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch permissions",
			Error:   err.Error(),
		})
	}
	return c.JSON(permissions)
}

// AssignRoleToUser assigns a role to a user inside the caller's organization
func AssignRoleToUser(c *fiber.Ctx) error {
	type AssignRoleInput struct {
		UserID uint `json:"user_id"`
		RoleID uint `json:"role_id"`
	}
	input := new(AssignRoleInput)
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
	var user models.User
	if err := query.First(&user, input.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "User not found",
			Error:   err.Error(),
		})
	}

	var role models.Role
	if err := db.DB.First(&role, input.RoleID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Role not found",
			Error:   err.Error(),
		})
	}

	// Tenant admins cannot mint platform administrators.
	if role.Name == models.RoleSuperAdmin {
		if _, scoped := callerOrg(c); scoped {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "Only a superadmin can grant the superadmin role",
				Error:   "forbidden",
			})
		}
	}

	user.RoleID = role.ID
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to assign role to user",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Role assigned successfully",
	})
}

// AssignPermissionToRole assigns a permission to a role
func AssignPermissionToRole(c *fiber.Ctx) error {
	type AssignPermissionInput struct {
		RoleID       uint `json:"role_id"`
		PermissionID uint `json:"permission_id"`
	}
	input := new(AssignPermissionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	var role models.Role
	if err := db.DB.Preload("Permissions").First(&role, input.RoleID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Role not found",
			Error:   err.Error(),
		})
	}

	var permission models.Permission
	if err := db.DB.First(&permission, input.PermissionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Permission not found",
			Error:   err.Error(),
		})
	}

	for _, p := range role.Permissions {
		if p.ID == permission.ID {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Message: "Permission already assigned to role",
				Error:   "duplicate assignment",
			})
		}
	}

	if err := db.DB.Model(&role).Association("Permissions").Append(&permission); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to assign permission to role",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Permission assigned successfully",
	})
}
