package handlers

import (
	"log"
	"net/http"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/esgboard-dev/esgboard/internal/services"
	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/esgboard-dev/esgboard/internal/utils"
	"github.com/gin-gonic/gin"
)

type RecordPurchaseRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
}

// RecordPurchase appends the caller's purchase/request to the audit log and
// pushes the entry to any connected admin feeds.
func RecordPurchase(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body RecordPurchaseRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User
	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	entry, err := services.RecordPurchase(&user, body.CompanyName)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	response := types.NewPurchaseLogResponse(*entry)
	BroadcastAuditEntry(response)

	ctx.JSON(http.StatusCreated, response)
}

// ListPurchaseLogs returns the full audit trail, newest first. Admin only.
func ListPurchaseLogs(ctx *gin.Context) {
	entries, err := services.ListPurchaseLogs()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	response := make([]types.PurchaseLogResponse, 0, len(entries))

	for _, entry := range entries {
		response = append(response, types.NewPurchaseLogResponse(entry))
	}

	ctx.JSON(http.StatusOK, response)
}
