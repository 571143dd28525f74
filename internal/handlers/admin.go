package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/importer"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/esgboard-dev/esgboard/internal/services"
	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/gin-gonic/gin"
)

// ListUsers returns every account for the admin console.
func ListUsers(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Order("username").Find(&users).Error; err != nil {
		log.Printf("Failed to list users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, types.NewUserResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

// UnlockUser clears an account lock and its failed-login counter. Locked
// accounts stay locked until an admin calls this; there is no auto-unlock.
func UnlockUser(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := services.UnlockUser(uint(userID)); err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Account unlocked"})
}

// ImportCompanies ingests a company ESG spreadsheet (multipart "file" field).
func ImportCompanies(ctx *gin.Context) {
	file, _, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Spreadsheet file is required"})
		return
	}
	defer file.Close()

	imported, err := importer.ImportCompanies(file)
	if err != nil {
		log.Printf("Company import failed after %d rows: %v", imported, err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "imported": imported})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Import complete", "imported": imported})
}

// ImportFunds ingests a fund spreadsheet (multipart "file" field).
func ImportFunds(ctx *gin.Context) {
	file, _, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Spreadsheet file is required"})
		return
	}
	defer file.Close()

	imported, err := importer.ImportFunds(file)
	if err != nil {
		log.Printf("Fund import failed after %d rows: %v", imported, err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "imported": imported})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Import complete", "imported": imported})
}
