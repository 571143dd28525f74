package handlers

import (
	"log"
	"net/http"

	"github.com/esgboard-dev/esgboard/internal/services"
	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/esgboard-dev/esgboard/internal/utils"
	"github.com/gin-gonic/gin"
)

type GrantCompanyRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	ISIN   string `json:"isin" binding:"required"`
	Notes  string `json:"notes"`
}

type RevokeCompanyRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	ISIN   string `json:"isin" binding:"required"`
}

type GrantReportRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	ReportID uint   `json:"report_id" binding:"required"`
	Notes    string `json:"notes"`
}

type RevokeReportRequest struct {
	UserID   uint `json:"user_id" binding:"required"`
	ReportID uint `json:"report_id" binding:"required"`
}

// GrantCompanyAccess assigns a company to a user. Admin only; repeating a
// grant reactivates the existing assignment instead of duplicating it.
func GrantCompanyAccess(ctx *gin.Context) {
	grantor, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body GrantCompanyRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	grantorID := grantor.ID
	grant, err := services.GrantCompany(body.UserID, body.ISIN, &grantorID, body.Notes)

	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	log.Printf("Company %s granted to user %d by %s", body.ISIN, body.UserID, grantor.Username)

	ctx.JSON(http.StatusOK, gin.H{
		"id":          grant.ID,
		"user_id":     grant.UserID,
		"isin":        grant.CompanyISIN,
		"assigned_at": grant.AssignedAt,
		"is_active":   grant.IsActive,
		"notes":       grant.Notes,
	})
}

func RevokeCompanyAccess(ctx *gin.Context) {
	var body RevokeCompanyRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := services.RevokeCompany(body.UserID, body.ISIN); err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Access revoked"})
}

func GrantReportAccess(ctx *gin.Context) {
	grantor, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body GrantReportRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	grantorID := grantor.ID
	grant, err := services.GrantReport(body.UserID, body.ReportID, &grantorID, body.Notes)

	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":          grant.ID,
		"user_id":     grant.UserID,
		"report_id":   grant.ReportID,
		"assigned_at": grant.AssignedAt,
		"is_active":   grant.IsActive,
		"notes":       grant.Notes,
	})
}

func RevokeReportAccess(ctx *gin.Context) {
	var body RevokeReportRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := services.RevokeReport(body.UserID, body.ReportID); err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Access revoked"})
}

// MyCompanies lists the caller's active company entitlements, newest first,
// with the report download link when one is available.
func MyCompanies(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	grants, err := services.ListActiveCompanies(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	response := make([]types.MyReportRow, 0, len(grants))

	for _, grant := range grants {
		response = append(response, types.NewMyReportRow(grant))
	}

	ctx.JSON(http.StatusOK, response)
}

// MyReports lists the caller's active standalone report entitlements.
func MyReports(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	grants, err := services.ListActiveReports(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	response := make([]types.UserReportRow, 0, len(grants))

	for _, grant := range grants {
		response = append(response, types.NewUserReportRow(grant))
	}

	ctx.JSON(http.StatusOK, response)
}
