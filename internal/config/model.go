package config

import (
	"time"

	"gorm.io/datatypes"
)

// ProfileModel represents the database storage of a Profile
type ProfileModel struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"uniqueIndex;not null"`
	Targets   datatypes.JSON
	StartPort uint16
	EndPort   uint16
	Timeout   time.Duration
	Loaded    time.Time
}

// TableName returns the table name for profiles
func (ProfileModel) TableName() string {
	return "profiles"
}
