package models

import (
	"time"

	"gorm.io/gorm"
)

// UserCompany grants a user access to a company's ESG data. Grants are
// toggled active/inactive rather than deleted so the assignment history
// survives for audit.
type UserCompany struct {
	gorm.Model

	UserID       uint   `gorm:"not null;uniqueIndex:idx_user_company"`
	CompanyISIN  string `gorm:"not null;size:14;uniqueIndex:idx_user_company"`
	AssignedByID *uint
	AssignedAt   time.Time `gorm:"not null;index"`
	IsActive     bool      `gorm:"default:true"`
	Notes        string

	// Relationships
	User       User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Company    Company `gorm:"foreignKey:CompanyISIN;references:ISIN;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedBy *User   `gorm:"foreignKey:AssignedByID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
