package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/auth"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/esgboard-dev/esgboard/internal/services"
	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/esgboard-dev/esgboard/internal/utils"
	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	PhoneNumber      string `json:"phone_number"`
	Organization     string `json:"organization"`
	JobTitle         string `json:"job_title"`
	Bio              string `json:"bio"`
	SubscriptionType string `json:"subscription_type"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Email           *string `json:"email" binding:"omitempty,email"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	PhoneNumber     *string `json:"phone_number"`
	Organization    *string `json:"organization"`
	JobTitle        *string `json:"job_title"`
	Bio             *string `json:"bio"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     *string `json:"new_password" binding:"omitempty,min=8"`
}

var (
	Domain = os.Getenv("DOMAIN")
)

func RegisterUser(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := services.Register(services.RegisterInput{
		Username:         body.Username,
		Email:            body.Email,
		Password:         body.Password,
		FirstName:        body.FirstName,
		LastName:         body.LastName,
		PhoneNumber:      body.PhoneNumber,
		Organization:     body.Organization,
		JobTitle:         body.JobTitle,
		Bio:              body.Bio,
		SubscriptionType: body.SubscriptionType,
	})

	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Username)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setAuthCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusCreated, gin.H{
		"user":  types.NewUserResponse(*user),
		"token": token,
	})
}

func LoginUser(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := services.Authenticate(body.Identifier, body.Password)

	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Username)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setAuthCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusOK, gin.H{
		"user":  types.NewUserResponse(*user),
		"token": token,
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(user)})
}

func LogoutUser(ctx *gin.Context) {
	setAuthCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func UpdateUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateUserRequest
	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Changing the password requires proving the current one.
	if body.NewPassword != nil {
		if body.CurrentPassword == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is required to change password"})
			return
		}

		if _, err := services.Authenticate(currentUser.Username, body.CurrentPassword); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
			return
		}
	}

	user, err := services.UpdateProfile(currentUser.ID, services.UpdateProfileInput{
		Email:        body.Email,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		PhoneNumber:  body.PhoneNumber,
		Organization: body.Organization,
		JobTitle:     body.JobTitle,
		Bio:          body.Bio,
		NewPassword:  body.NewPassword,
	})

	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    types.NewUserResponse(*user),
	})
}

func VerifyEmail(ctx *gin.Context) {
	var body struct {
		Token string `json:"token" binding:"required"`
	}

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Verification token is required"})
		return
	}

	user, err := services.VerifyEmail(body.Token)

	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully",
		"user":    types.NewUserResponse(*user),
	})
}

func DeleteUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body struct {
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Password is required for account deletion"})
		return
	}

	if _, err := services.Authenticate(currentUser.Username, body.Password); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect password"})
		return
	}

	if err := services.DeleteAccount(currentUser.ID); err != nil {
		handleServiceError(ctx, err)
		return
	}

	setAuthCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func setAuthCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
