package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/propretech/cleanops-app/controllers"
	"github.com/propretech/cleanops-app/middleware"
)

// SetupDashboardRoutes configures the role-scoped dashboard routes
func SetupDashboardRoutes(app *fiber.App) {
	dashboard := app.Group("/dashboard", middleware.Protected())
	dashboard.Get("/overview", controllers.GetDashboardOverview)
	dashboard.Get("/weekly-summary", middleware.RequirePermission("planning", "read"), controllers.GetWeeklySummary)
}
