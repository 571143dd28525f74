package models

import (
	"time"

	"gorm.io/gorm"
)

// UserReport grants a user access to a standalone report. Same
// toggle-not-delete pattern as UserCompany.
type UserReport struct {
	gorm.Model

	UserID       uint `gorm:"not null;uniqueIndex:idx_user_report"`
	ReportID     uint `gorm:"not null;uniqueIndex:idx_user_report"`
	AssignedByID *uint
	AssignedAt   time.Time `gorm:"not null;index"`
	IsActive     bool      `gorm:"default:true"`
	Notes        string

	// Relationships
	User       User   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Report     Report `gorm:"foreignKey:ReportID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedBy *User  `gorm:"foreignKey:AssignedByID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
