package models

import (
	"gorm.io/gorm"
)

// Organization is a tenant: a cleaning company managing its own locations,
// agents, templates, and generated tasks.
type Organization struct {
	gorm.Model
	Name              string `json:"name" gorm:"not null;unique"`
	Address           string `json:"address"`
	City              string `json:"city"`
	ZipCode           string `json:"zip_code"`
	Country           string `json:"country"`
	PhoneNumber       string `json:"phone_number"`
	Email             string `json:"email"`
	IsActive          bool   `json:"is_active" gorm:"default:true"`
	DefaultTemplateID *uint  `json:"default_template_id"` // template used by the morning auto-generation job
}
