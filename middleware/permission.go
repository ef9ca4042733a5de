package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/propretech/cleanops-app/db"
	"github.com/propretech/cleanops-app/models"
)

// RequirePermission checks if the user has the required permission
func RequirePermission(resource string, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user").(*jwt.Token)
		claims := user.Claims.(jwt.MapClaims)
		userID := uint(claims["id"].(float64))

		// Get user with role and permissions from database
		var dbUser models.User
		if err := db.DB.Preload("Role.Permissions").First(&dbUser, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		hasPermission := false
		for _, permission := range dbUser.Role.Permissions {
			if permission.Resource == resource && permission.Action == action {
				hasPermission = true
				break
			}
		}
		if !hasPermission {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to perform this action",
			})
		}

		return c.Next()
	}
}

// RequireRole checks if the user has one of the required roles
func RequireRole(roleNames ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user").(*jwt.Token)
		claims := user.Claims.(jwt.MapClaims)
		userID := uint(claims["id"].(float64))

		var dbUser models.User
		if err := db.DB.Preload("Role").First(&dbUser, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		for _, name := range roleNames {
			if dbUser.Role.Name == name {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have the required role to perform this action",
		})
	}
}
