package models

import "gorm.io/gorm"

// Report is a standalone ESG report document, identified by company name and
// publication year.
type Report struct {
	gorm.Model

	CompanyName string `gorm:"not null;size:200;uniqueIndex:idx_report_name_year"`
	Year        int    `gorm:"not null;uniqueIndex:idx_report_name_year"`
	Sector      string `gorm:"size:100"`
	Rating      string `gorm:"not null;size:10"` // A+, B, C+, etc.
	ReportURL   string
	ReportFile  string
	IsActive    bool `gorm:"default:true"`

	// Relationships
	Owners []UserReport `gorm:"foreignKey:ReportID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
