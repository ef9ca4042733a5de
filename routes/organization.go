package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/propretech/cleanops-app/controllers"
	"github.com/propretech/cleanops-app/middleware"
	"github.com/propretech/cleanops-app/models"
)

// SetupOrganizationRoutes configures tenant administration routes
func SetupOrganizationRoutes(app *fiber.App) {
	org := app.Group("/organizations", middleware.Protected())
	org.Get("/", middleware.RequireRole(models.RoleSuperAdmin), controllers.GetAllOrganizations)
	org.Get("/:id", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), controllers.GetOrganization)
	org.Post("/", middleware.RequireRole(models.RoleSuperAdmin), controllers.CreateOrganization)
	org.Put("/:id", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), controllers.UpdateOrganization)
	org.Delete("/:id", middleware.RequireRole(models.RoleSuperAdmin), controllers.DeleteOrganization)
}
