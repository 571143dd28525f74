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
	"gorm.io/gorm/clause"
)

type UpsertCompanyRequest struct {
	ISIN              string `json:"isin" binding:"required"`
	CompanyName       string `json:"company_name" binding:"required"`
	BSESymbol         string `json:"bse_symbol"`
	NSESymbol         string `json:"nse_symbol"`
	Sector            string `json:"sector"`
	Industry          string `json:"industry"`
	ESGSector         string `json:"esg_sector"`
	MarketCap         string `json:"market_cap"`
	EPillar           string `json:"e_pillar"`
	SPillar           string `json:"s_pillar"`
	GPillar           string `json:"g_pillar"`
	ESGPillar         string `json:"esg_pillar"`
	PositiveScreen    string `json:"positive_screen"`
	NegativeScreen    string `json:"negative_screen"`
	ControversyRating string `json:"controversy_rating"`
	CompositeRating   string `json:"composite_rating"`
	ESGRating         string `json:"esg_rating"`
	PDFFilename       string `json:"pdf_filename"`
}

// ListCompanies backs both the ESG reports listing and the comparison tool.
func ListCompanies(ctx *gin.Context) {
	var companies []models.Company

	query := db.DB.Order("company_name")

	if sector := ctx.Query("sector"); sector != "" {
		query = query.Where("sector = ?", sector)
	}

	if err := query.Find(&companies).Error; err != nil {
		log.Printf("Failed to list companies: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve companies"})
		return
	}

	response := make([]types.CompanyListItem, 0, len(companies))

	for _, company := range companies {
		response = append(response, types.NewCompanyListItem(company))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetCompany(ctx *gin.Context) {
	isin := ctx.Param("isin")

	var company models.Company

	if err := db.DB.First(&company, "isin = ?", isin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		} else {
			log.Printf("Failed to fetch company: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve company"})
		}
		return
	}

	ctx.JSON(http.StatusOK, types.NewCompanyResponse(company))
}

// UpsertCompany creates or refreshes one catalog row. Admin only.
func UpsertCompany(ctx *gin.Context) {
	var body UpsertCompanyRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	company := models.Company{
		ISIN:              body.ISIN,
		CompanyName:       body.CompanyName,
		BSESymbol:         body.BSESymbol,
		NSESymbol:         body.NSESymbol,
		Sector:            body.Sector,
		Industry:          body.Industry,
		ESGSector:         body.ESGSector,
		MarketCap:         body.MarketCap,
		EPillar:           body.EPillar,
		SPillar:           body.SPillar,
		GPillar:           body.GPillar,
		ESGPillar:         body.ESGPillar,
		PositiveScreen:    body.PositiveScreen,
		NegativeScreen:    body.NegativeScreen,
		ControversyRating: body.ControversyRating,
		CompositeRating:   body.CompositeRating,
		ESGRating:         body.ESGRating,
		PDFFilename:       body.PDFFilename,
		HasPDFReport:      body.PDFFilename != "",

		Grade:       body.ESGRating,
		EScore:      body.EPillar,
		SScore:      body.SPillar,
		GScore:      body.GPillar,
		ESGScore:    body.ESGPillar,
		Positive:    body.PositiveScreen,
		Negative:    body.NegativeScreen,
		Controversy: body.ControversyRating,
		Composite:   body.CompositeRating,
	}

	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "isin"}},
		UpdateAll: true,
	}).Create(&company).Error

	if err != nil {
		log.Printf("Failed to upsert company: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save company"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewCompanyResponse(company))
}
