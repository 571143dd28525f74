package models

import (
	"fmt"
	"strings"
	"time"
)

// Company holds ESG reference data keyed by ISIN. All score fields are kept
// as text, matching the source spreadsheets, to avoid lossy conversions.
type Company struct {
	ISIN        string `gorm:"primaryKey;size:14"`
	CompanyName string `gorm:"size:200;index"`

	// Basic company info
	BSESymbol string `gorm:"size:50"`
	NSESymbol string `gorm:"size:50"`
	Sector    string `gorm:"size:100"`
	Industry  string `gorm:"size:100"`
	ESGSector string `gorm:"size:100"`
	MarketCap string `gorm:"size:50"`

	// ESG pillar scores
	EPillar   string `gorm:"size:20"`
	SPillar   string `gorm:"size:20"`
	GPillar   string `gorm:"size:20"`
	ESGPillar string `gorm:"size:20"`

	// Screening & ratings
	PositiveScreen    string `gorm:"size:50"`
	NegativeScreen    string `gorm:"size:50"`
	ControversyRating string `gorm:"size:50"`
	CompositeRating   string `gorm:"size:50"`
	ESGRating         string `gorm:"size:10"`

	// PDF report metadata
	PDFFilename  string `gorm:"size:200"`
	HasPDFReport bool   `gorm:"default:false"`

	SrNo string `gorm:"size:10"` // Sr No. from the source sheet

	// Legacy aliases kept for older API consumers
	Grade       string `gorm:"size:4"`
	EScore      string `gorm:"size:20"`
	SScore      string `gorm:"size:20"`
	GScore      string `gorm:"size:20"`
	ESGScore    string `gorm:"size:20"`
	Positive    string `gorm:"size:15"`
	Negative    string `gorm:"size:15"`
	Controversy string `gorm:"size:15"`
	Composite   string `gorm:"size:20"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PDFOnRecord reports whether a report file is actually on record. The
// stored HasPDFReport flag is ignored here: a blank filename means no report,
// regardless of what the flag or its column default says.
func (c *Company) PDFOnRecord() bool {
	return strings.TrimSpace(c.PDFFilename) != ""
}

// ReportDownloadURL returns the download path for the company's PDF report,
// or "" unless the flag is set and a filename is on record.
func (c *Company) ReportDownloadURL() string {
	if !c.HasPDFReport || !c.PDFOnRecord() {
		return ""
	}
	return fmt.Sprintf("/api/reports/download/%s/", c.CompanyName)
}
