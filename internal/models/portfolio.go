package models

import "gorm.io/gorm"

// Portfolio is a user-defined collection of companies with custom AUM
// weights. Names are unique per owner.
type Portfolio struct {
	gorm.Model

	UserID uint   `gorm:"not null;uniqueIndex:idx_user_portfolio_name"`
	Name   string `gorm:"not null;size:255;uniqueIndex:idx_user_portfolio_name"`

	// Relationships
	User      User               `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Companies []PortfolioCompany `gorm:"foreignKey:PortfolioID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
