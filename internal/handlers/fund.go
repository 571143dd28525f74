package handlers

import (
	"log"
	"net/http"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

type UpsertFundRequest struct {
	FundName   string   `json:"fund_name" binding:"required"`
	Score      *float64 `json:"score"`
	Percentage string   `json:"percentage"`
	Grade      string   `json:"grade"`
}

func ListFunds(ctx *gin.Context) {
	var funds []models.Fund

	if err := db.DB.Order("fund_name").Find(&funds).Error; err != nil {
		log.Printf("Failed to list funds: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve funds"})
		return
	}

	response := make([]types.FundResponse, 0, len(funds))

	for _, fund := range funds {
		response = append(response, types.NewFundResponse(fund))
	}

	ctx.JSON(http.StatusOK, response)
}

// UpsertFund creates or refreshes one fund row, keyed by name. Admin only.
func UpsertFund(ctx *gin.Context) {
	var body UpsertFundRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fund := models.Fund{
		FundName:   body.FundName,
		Score:      body.Score,
		Percentage: body.Percentage,
		Grade:      body.Grade,
	}

	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fund_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "percentage", "grade", "updated_at"}),
	}).Create(&fund).Error

	if err != nil {
		log.Printf("Failed to upsert fund: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save fund"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewFundResponse(fund))
}
