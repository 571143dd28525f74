package handlers

import (
	"net/http"

	"github.com/esgboard-dev/esgboard/internal/services"
	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/esgboard-dev/esgboard/internal/utils"
	"github.com/gin-gonic/gin"
)

type BuildPortfolioRequest struct {
	Name string `json:"name" binding:"required"`
	// CompaniesData is the raw JSON list of {"id_key": ..., "aum": ...}
	// holdings, kept as a string so the service can report shape problems
	// item by item.
	CompaniesData string `json:"companies_data" binding:"required"`
}

// BuildPortfolio creates or REPLACES the named portfolio from the submitted
// holdings. Replacement is all-or-nothing: a payload with any bad or
// unresolvable entry creates no rows at all.
func BuildPortfolio(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body BuildPortfolioRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	portfolio, err := services.BuildPortfolio(userID, body.Name, body.CompaniesData)

	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewPortfolioResponse(*portfolio))
}

func ListPortfolios(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	portfolios, err := services.ListPortfolios(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	response := make([]types.PortfolioResponse, 0, len(portfolios))

	for _, portfolio := range portfolios {
		response = append(response, types.NewPortfolioResponse(portfolio))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetPortfolio(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	portfolio, err := services.GetPortfolio(userID, ctx.Param("name"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewPortfolioResponse(*portfolio))
}

// GetPortfolioSummary returns total AUM and per-holding weight percentages.
func GetPortfolioSummary(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	summary, err := services.SummarizePortfolio(userID, ctx.Param("name"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

func DeletePortfolio(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := services.DeletePortfolio(userID, ctx.Param("name")); err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
