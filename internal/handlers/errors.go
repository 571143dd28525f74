package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/esgboard-dev/esgboard/internal/services"
	"github.com/gin-gonic/gin"
)

// handleServiceError maps the services error taxonomy onto HTTP responses.
// Anything unrecognized is logged and reported as a 500 without leaking the
// underlying storage error.
func handleServiceError(ctx *gin.Context, err error) {
	var dup *services.DuplicateIdentityError
	if errors.As(err, &dup) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": dup.Error(), "fields": dup.Fields})
		return
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": verr.Problems})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, services.ErrPermissionDenied):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	case errors.Is(err, services.ErrAccountLocked):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Account is locked"})
	case errors.Is(err, services.ErrInvalidCredentials):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username/email or password"})
	default:
		log.Printf("Unexpected service error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
