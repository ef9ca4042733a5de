package cron

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"

	"github.com/propretech/cleanops-app/db"
	"github.com/propretech/cleanops-app/models"
	"github.com/propretech/cleanops-app/scheduler"
	"github.com/propretech/cleanops-app/utils"
)

// StartCronJobs initializes and starts the scheduler for the morning
// auto-generation run
func StartCronJobs() {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New()
	// Every day at 05:30, before the earliest shift starts
	_, err := c.AddFunc("30 5 * * *", generateMorningPlannings)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for morning planning generation")
}

// generateMorningPlannings creates today's tasks for every agent whose
// organization configured a default template. Agents who already have tasks
// for today are left alone; generation never replaces existing work here.
func generateMorningPlannings() {
	today := time.Now()

	var orgs []models.Organization
	if err := db.DB.Where("is_active = ? AND default_template_id IS NOT NULL", true).Find(&orgs).Error; err != nil {
		log.Printf("Error fetching organizations for morning generation: %v", err)
		return
	}

	for _, org := range orgs {
		var template models.PlanningTemplate
		if err := db.DB.Where("organization_id = ?", org.ID).First(&template, *org.DefaultTemplateID).Error; err != nil {
			log.Printf("Organization %d: default template missing: %v", org.ID, err)
			continue
		}

		var day models.DaySchedule
		switch template.Kind {
		case models.TemplateWeekly:
			resolved, _, err := scheduler.ResolveEffectiveDay(*template.Weekly, today)
			if err != nil {
				log.Printf("Organization %d: skipping generation, %v", org.ID, err)
				continue
			}
			day = resolved
		case models.TemplateLegacy:
			day = *template.Legacy
		}

		var agents []models.User
		if err := db.DB.Joins("JOIN roles ON roles.id = users.role_id").
			Where("roles.name = ? AND users.organization_id = ? AND users.is_active = ?", models.RoleAgent, org.ID, true).
			Find(&agents).Error; err != nil {
			log.Printf("Organization %d: error fetching agents: %v", org.ID, err)
			continue
		}

		for _, agent := range agents {
			var existing int64
			db.DB.Model(&models.Task{}).
				Where("agent_id = ? AND date = ?", agent.ID, datatypes.Date(today)).
				Count(&existing)
			if existing > 0 {
				continue
			}

			cfg := scheduler.ConfigFromDay(agent.ID, day)
			if err := cfg.Validate(); err != nil {
				log.Printf("Agent %d: default template not generatable: %v", agent.ID, err)
				continue
			}
			locs, err := loadLocations(org.ID, cfg)
			if err != nil {
				log.Printf("Agent %d: %v", agent.ID, err)
				continue
			}

			result, err := scheduler.GeneratePlanning(db.DB, org.ID, cfg, today, false, locs)
			if err != nil {
				log.Printf("Agent %d: morning generation failed: %v", agent.ID, err)
				continue
			}
			log.Printf("Generated %d tasks for agent %d (%s)", result.TasksCreated, agent.ID, agent.Name)

			if err := sendPlanningEmail(&agent, result); err != nil {
				log.Printf("Failed to send planning email to %s: %v", agent.Email, err)
			}
		}
	}
}

func loadLocations(orgID uint, cfg scheduler.PlanningConfig) (map[string]scheduler.LocationInfo, error) {
	var locations []models.Location
	if err := db.DB.Where("organization_id = ?", orgID).Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("error fetching locations: %w", err)
	}
	locs := make(map[string]scheduler.LocationInfo, len(locations))
	for _, l := range locations {
		locs[fmt.Sprintf("%d", l.ID)] = scheduler.LocationInfo{
			ID:                  l.ID,
			Name:                l.Name,
			Surface:             l.Surface,
			CleaningCoefficient: l.CleaningCoefficient,
			Type:                l.Type,
		}
	}
	return locs, nil
}

// sendPlanningEmail mails the agent their generated day
func sendPlanningEmail(agent *models.User, result scheduler.GenerateResult) error {
	subject := fmt.Sprintf("Your cleaning schedule for %s", time.Now().Format("2006-01-02"))

	var rows strings.Builder
	for _, task := range result.Tasks {
		rows.WriteString(fmt.Sprintf("<li>%s - %s: location %d (%d min)</li>",
			task.StartTime, task.EndTime, task.LocationID, task.Duration))
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your schedule for today has been generated: %d tasks, %d minutes in total.</p>
		<ul>%s</ul>
		<p>Open the app to see location details and directions.</p>
		<p>Best regards,</p>
		<p>Your Planning Team</p>
	`, agent.Name, result.TasksCreated, result.TotalDuration, rows.String())

	return utils.SendEmail(agent.Email, subject, body)
}
