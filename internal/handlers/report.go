package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateReportRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Year        int    `json:"year" binding:"required"`
	Sector      string `json:"sector"`
	Rating      string `json:"rating" binding:"required"`
	ReportURL   string `json:"report_url"`
	ReportFile  string `json:"report_file"`
}

func ListReports(ctx *gin.Context) {
	var reports []models.Report

	query := db.DB.Where("is_active = ?", true).Order("year DESC, company_name")

	if year := ctx.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}

	if err := query.Find(&reports).Error; err != nil {
		log.Printf("Failed to list reports: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}

	response := make([]types.ReportResponse, 0, len(reports))

	for _, report := range reports {
		response = append(response, types.NewReportResponse(report))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateReport registers a standalone report document. Admin only; the
// (company_name, year) pair must be unique.
func CreateReport(ctx *gin.Context) {
	var body CreateReportRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var existing models.Report
	err := db.DB.Where("company_name = ? AND year = ?", body.CompanyName, body.Year).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "A report for this company and year already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check existing report: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	report := models.Report{
		CompanyName: body.CompanyName,
		Year:        body.Year,
		Sector:      body.Sector,
		Rating:      body.Rating,
		ReportURL:   body.ReportURL,
		ReportFile:  body.ReportFile,
		IsActive:    true,
	}

	if err := db.DB.Create(&report).Error; err != nil {
		log.Printf("Failed to create report: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	ctx.JSON(http.StatusCreated, types.NewReportResponse(report))
}
