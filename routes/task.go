package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/propretech/cleanops-app/controllers"
	"github.com/propretech/cleanops-app/middleware"
)

// SetupTaskRoutes configures all generated-task related routes
func SetupTaskRoutes(app *fiber.App) {
	task := app.Group("/tasks", middleware.Protected())
	task.Get("/", middleware.RequirePermission("tasks", "read"), controllers.GetTasks)
	task.Get("/:id", middleware.RequirePermission("tasks", "read"), controllers.GetTask)
	task.Patch("/:id/status", middleware.RequirePermission("tasks", "update"), controllers.UpdateTaskStatus)
}
