package db

import (
	"fmt"
	"log"

	"github.com/propretech/cleanops-app/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Location{},
		&models.PlanningTemplate{},
		&models.Task{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	seedRolesAndPermissions()

	fmt.Println("✅ Migrations applied successfully!")
}

func seedRolesAndPermissions() {
	roles := []models.Role{
		{Name: models.RoleSuperAdmin, Description: "Platform administrator managing organizations"},
		{Name: models.RoleAdmin, Description: "Organization administrator managing agents, locations and planning"},
		{Name: models.RoleAgent, Description: "Cleaning staff member executing assigned tasks"},
	}
	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}

	permissions := []models.Permission{
		{Name: "create_user", Description: "Create new users", Resource: "users", Action: "create"},
		{Name: "read_users", Description: "View user list", Resource: "users", Action: "read"},
		{Name: "update_user", Description: "Update user details", Resource: "users", Action: "update"},
		{Name: "delete_user", Description: "Delete users", Resource: "users", Action: "delete"},

		{Name: "create_location", Description: "Create locations", Resource: "locations", Action: "create"},
		{Name: "read_locations", Description: "View locations", Resource: "locations", Action: "read"},
		{Name: "update_location", Description: "Update locations", Resource: "locations", Action: "update"},
		{Name: "delete_location", Description: "Delete locations", Resource: "locations", Action: "delete"},

		{Name: "read_tasks", Description: "View tasks", Resource: "tasks", Action: "read"},
		{Name: "update_task", Description: "Update task status", Resource: "tasks", Action: "update"},
		{Name: "delete_task", Description: "Delete tasks", Resource: "tasks", Action: "delete"},

		{Name: "manage_planning", Description: "Edit drafts, preview and generate planning", Resource: "planning", Action: "manage"},
		{Name: "read_planning", Description: "View planning and previews", Resource: "planning", Action: "read"},

		{Name: "read_roles", Description: "View roles", Resource: "roles", Action: "read"},
		{Name: "read_permissions", Description: "View permissions", Resource: "permissions", Action: "read"},

		{Name: "create_template", Description: "Create planning templates", Resource: "templates", Action: "create"},
		{Name: "read_templates", Description: "View planning templates", Resource: "templates", Action: "read"},
		{Name: "update_template", Description: "Update planning templates", Resource: "templates", Action: "update"},
		{Name: "delete_template", Description: "Delete planning templates", Resource: "templates", Action: "delete"},
	}
	for _, permission := range permissions {
		var existing models.Permission
		if DB.Where("name = ?", permission.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&permission)
		}
	}

	// Superadmins and admins get the full set; agents only read their
	// planning and move their own tasks along.
	for _, name := range []string{models.RoleSuperAdmin, models.RoleAdmin} {
		var role models.Role
		if DB.Where("name = ?", name).First(&role).RowsAffected > 0 {
			var all []models.Permission
			DB.Find(&all)
			DB.Model(&role).Association("Permissions").Clear()
			DB.Model(&role).Association("Permissions").Append(all)
		}
	}

	var agentRole models.Role
	if DB.Where("name = ?", models.RoleAgent).First(&agentRole).RowsAffected > 0 {
		var agentPermissions []models.Permission
		DB.Where("name IN (?)", []string{"read_tasks", "update_task", "read_planning", "read_locations"}).
			Find(&agentPermissions)
		DB.Model(&agentRole).Association("Permissions").Clear()
		DB.Model(&agentRole).Association("Permissions").Append(agentPermissions)
	}
}
