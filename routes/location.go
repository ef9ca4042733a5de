package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/propretech/cleanops-app/controllers"
	"github.com/propretech/cleanops-app/middleware"
)

// SetupLocationRoutes configures all location related routes
func SetupLocationRoutes(app *fiber.App) {
	location := app.Group("/locations", middleware.Protected())
	location.Get("/", middleware.RequirePermission("locations", "read"), controllers.GetAllLocations)
	location.Get("/:id", middleware.RequirePermission("locations", "read"), controllers.GetLocation)
	location.Post("/", middleware.RequirePermission("locations", "create"), controllers.CreateLocation)
	location.Put("/:id", middleware.RequirePermission("locations", "update"), controllers.UpdateLocation)
	location.Delete("/:id", middleware.RequirePermission("locations", "delete"), controllers.DeleteLocation)
	location.Post("/:id/photo", middleware.RequirePermission("locations", "update"), controllers.UploadLocationPhoto)
}
