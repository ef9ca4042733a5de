package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/propretech/cleanops-app/controllers"
	"github.com/propretech/cleanops-app/middleware"
)

// SetupPlanningRoutes configures the planning editor, preview/generation and
// template routes
func SetupPlanningRoutes(app *fiber.App) {
	planning := app.Group("/planning", middleware.Protected())

	// Templates
	planning.Get("/templates", middleware.RequirePermission("templates", "read"), controllers.GetAllTemplates)
	planning.Get("/templates/:id", middleware.RequirePermission("templates", "read"), controllers.GetTemplate)
	planning.Post("/templates", middleware.RequirePermission("templates", "create"), controllers.CreateTemplate)
	planning.Put("/templates/:id", middleware.RequirePermission("templates", "update"), controllers.UpdateTemplate)
	planning.Delete("/templates/:id", middleware.RequirePermission("templates", "delete"), controllers.DeleteTemplate)

	// Editing sessions (drafts held in Redis)
	sessions := planning.Group("/sessions", middleware.RequirePermission("planning", "manage"))
	sessions.Put("/:agentId", controllers.CreatePlanningSession)
	sessions.Get("/:agentId", controllers.GetPlanningSession)
	sessions.Post("/:agentId/days/:day/assignments", controllers.AddAssignment)
	sessions.Patch("/:agentId/days/:day/assignments/:index", controllers.UpdateAssignment)
	sessions.Delete("/:agentId/days/:day/assignments/:index", controllers.RemoveAssignment)
	sessions.Post("/:agentId/days/:day/reorder", controllers.ReorderAssignments)
	sessions.Post("/:agentId/days/:day/copy-to-week", controllers.CopyDayToWeek)

	// Preview, generation, duplication
	planning.Post("/preview", middleware.RequirePermission("planning", "manage"), controllers.PreviewPlanning)
	planning.Post("/generate", middleware.RequirePermission("planning", "manage"), controllers.GeneratePlanning)
	planning.Post("/duplicate", middleware.RequirePermission("planning", "manage"), controllers.DuplicatePlanning)
	planning.Delete("/agents/:agentId", middleware.RequirePermission("planning", "manage"), controllers.DeleteAgentPlanning)
}
