package models

import (
	"time"

	"github.com/google/uuid"
)

// Zone is a named set of geographic members used by tax rates.
type Zone struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Members []ZoneMember `gorm:"foreignKey:ZoneID"`
}

// ZoneMember matches a ship address by country and, optionally, region.
type ZoneMember struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ZoneID     uuid.UUID `gorm:"column:zone_id;type:uuid;not null;index"`
	CountryISO string    `gorm:"column:country_iso;not null"`
	Region     *string   `gorm:"column:region"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Matches reports whether the member covers the given country/region pair.
func (m ZoneMember) Matches(countryISO, region string) bool {
	if m.CountryISO != countryISO {
		return false
	}
	return m.Region == nil || *m.Region == "" || *m.Region == region
}
