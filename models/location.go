package models

import (
	"gorm.io/gorm"
)

// LocationType classifies a cleaning site; it drives the fallback duration
// when the location carries no usable surface data.
type LocationType string

const (
	LocationOffice     LocationType = "office"
	LocationCommerce   LocationType = "commerce"
	LocationResidence  LocationType = "residence"
	LocationIndustrial LocationType = "industrial"
	LocationOther      LocationType = "other"
)

// Location is a cleaning site managed by an organization.
type Location struct {
	gorm.Model
	OrganizationID      uint         `json:"organization_id" gorm:"index"`
	Name                string       `json:"name" gorm:"not null"`
	Address             string       `json:"address"`
	City                string       `json:"city"`
	ZipCode             string       `json:"zip_code"`
	Type                LocationType `json:"type" gorm:"size:20;default:'other'"`
	Surface             float64      `json:"surface"`              // square meters
	CleaningCoefficient float64      `json:"cleaning_coefficient"` // minutes per square meter
	PhotoURL            string       `json:"photo_url"`
	Notes               string       `json:"notes"`
}

// FallbackDurations gives the per-type default cleaning duration in minutes,
// used when surface or coefficient data is missing.
var FallbackDurations = map[LocationType]int{
	LocationOffice:     60,
	LocationCommerce:   90,
	LocationResidence:  120,
	LocationIndustrial: 180,
	LocationOther:      90,
}

// DefaultDuration computes the location's default cleaning duration in
// minutes: surface times coefficient, rounded, or the type fallback when
// either factor is missing. The second return reports whether the fallback
// was used.
func (l Location) DefaultDuration() (int, bool) {
	if l.Surface > 0 && l.CleaningCoefficient > 0 {
		return int(l.Surface*l.CleaningCoefficient + 0.5), false
	}
	if d, ok := FallbackDurations[l.Type]; ok {
		return d, true
	}
	return FallbackDurations[LocationOther], true
}
