package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an authenticated member of an organization. Agents (cleaning staff)
// are users carrying the agent role; superadmins have no organization.
type User struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name"`
	Email          string         `json:"email" gorm:"unique"`
	Password       string         `json:"password,omitempty"`
	PhoneNumber    string         `json:"phone_number"`
	ProfilePicture string         `json:"profile_picture"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	OrganizationID *uint          `json:"organization_id" gorm:"index"`
	Organization   *Organization  `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	RoleID         uint           `json:"role_id"`
	Role           Role           `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Tasks          []Task         `json:"tasks,omitempty" gorm:"foreignKey:AgentID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
