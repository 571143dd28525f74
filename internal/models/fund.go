package models

import "gorm.io/gorm"

type Fund struct {
	gorm.Model

	FundName   string `gorm:"uniqueIndex;size:200;not null"`
	Score      *float64
	Percentage string `gorm:"size:20"`
	Grade      string `gorm:"size:10"`
}
