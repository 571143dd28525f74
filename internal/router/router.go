package router

import (
	"time"

	"github.com/esgboard-dev/esgboard/internal/handlers"
	"github.com/esgboard-dev/esgboard/internal/middleware"
	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/audit", middleware.AuthMiddleware(), middleware.StaffMiddleware(), handlers.AuditFeed)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.POST("/verify", handlers.VerifyEmail)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), handlers.UpdateUser)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteUser)
		}

		// Catalog reads
		api.GET("/companies", middleware.AuthMiddleware(), handlers.ListCompanies)
		api.GET("/companies/:isin", middleware.AuthMiddleware(), handlers.GetCompany)
		api.GET("/funds", middleware.AuthMiddleware(), handlers.ListFunds)
		api.GET("/reports", middleware.AuthMiddleware(), handlers.ListReports)

		// Articles are public reads
		api.GET("/articles", handlers.ListArticles)
		api.GET("/articles/:slug", handlers.GetArticle)
		api.GET("/tags", handlers.ListTags)

		my := api.Group("/my", middleware.AuthMiddleware())
		{
			my.GET("/companies", handlers.MyCompanies)
			my.GET("/reports", handlers.MyReports)
		}

		portfolios := api.Group("/portfolios", middleware.AuthMiddleware())
		{
			portfolios.POST("", handlers.BuildPortfolio)
			portfolios.GET("", handlers.ListPortfolios)
			portfolios.GET("/:name", handlers.GetPortfolio)
			portfolios.GET("/:name/summary", handlers.GetPortfolioSummary)
			portfolios.DELETE("/:name", handlers.DeletePortfolio)
		}

		notes := api.Group("/notes", middleware.AuthMiddleware())
		{
			notes.POST("", handlers.CreateNote)
			notes.GET("", handlers.ListNotes)
			notes.DELETE("/:id", handlers.DeleteNote)
		}

		api.POST("/purchases", middleware.AuthMiddleware(), handlers.RecordPurchase)

		admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.StaffMiddleware())
		{
			admin.GET("/users", handlers.ListUsers)
			admin.POST("/users/:id/unlock", handlers.UnlockUser)

			admin.POST("/companies", handlers.UpsertCompany)
			admin.POST("/funds", handlers.UpsertFund)
			admin.POST("/reports", handlers.CreateReport)
			admin.POST("/articles", handlers.CreateArticle)

			admin.POST("/entitlements/companies", handlers.GrantCompanyAccess)
			admin.DELETE("/entitlements/companies", handlers.RevokeCompanyAccess)
			admin.POST("/entitlements/reports", handlers.GrantReportAccess)
			admin.DELETE("/entitlements/reports", handlers.RevokeReportAccess)

			admin.POST("/import/companies", handlers.ImportCompanies)
			admin.POST("/import/funds", handlers.ImportFunds)

			admin.GET("/purchase-logs", handlers.ListPurchaseLogs)
		}
	}

	return r
}
