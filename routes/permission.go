package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/propretech/cleanops-app/controllers"
	"github.com/propretech/cleanops-app/middleware"
	"github.com/propretech/cleanops-app/models"
)

// SetupRBACRoutes configures all RBAC related routes
func SetupRBACRoutes(app *fiber.App) {
	rbac := app.Group("/rbac", middleware.Protected())

	// Roles
	rbac.Post("/roles", middleware.RequireRole(models.RoleSuperAdmin), controllers.CreateRole)
	rbac.Get("/roles", middleware.RequirePermission("roles", "read"), controllers.GetRoles)

	// Permissions
	rbac.Post("/permissions", middleware.RequireRole(models.RoleSuperAdmin), controllers.CreatePermission)
	rbac.Get("/permissions", middleware.RequirePermission("permissions", "read"), controllers.GetPermissions)

	// Assign role to user
	rbac.Post("/users/role", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), controllers.AssignRoleToUser)

	// Assign permission to role
	rbac.Post("/roles/permission", middleware.RequireRole(models.RoleSuperAdmin), controllers.AssignPermissionToRole)
}
