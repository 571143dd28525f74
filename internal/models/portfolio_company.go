package models

import "gorm.io/gorm"

// PortfolioCompany is one holding inside a portfolio. A company appears at
// most once per portfolio.
type PortfolioCompany struct {
	gorm.Model

	PortfolioID uint   `gorm:"not null;uniqueIndex:idx_portfolio_company"`
	CompanyISIN string `gorm:"not null;size:14;uniqueIndex:idx_portfolio_company"`
	AUMValue    *float64

	// Relationships
	Portfolio Portfolio `gorm:"foreignKey:PortfolioID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Company   Company   `gorm:"foreignKey:CompanyISIN;references:ISIN;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
