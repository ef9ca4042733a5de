package main

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/propretech/cleanops-app/cron"

	"github.com/propretech/cleanops-app/db"

	"github.com/propretech/cleanops-app/redis"

	"github.com/propretech/cleanops-app/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	redis.InitRedis()
	cron.StartCronJobs()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("CleanOps planning API")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupRBACRoutes(app)
	routes.SetupOrganizationRoutes(app)
	routes.SetupLocationRoutes(app)
	routes.SetupTaskRoutes(app)
	routes.SetupPlanningRoutes(app)
	routes.SetupDashboardRoutes(app)

	log.Fatal(app.Listen(":8000"))
}
