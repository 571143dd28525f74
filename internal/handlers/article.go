package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateArticleRequest struct {
	Category        string   `json:"category" binding:"required"`
	Title           string   `json:"title" binding:"required"`
	Content         string   `json:"content" binding:"required"`
	PublicationDate string   `json:"publication_date"` // "2006-01-02", defaults to today
	MainImage       string   `json:"main_image"`
	ExternalLink    string   `json:"external_link"`
	Tags            []string `json:"tags"`
}

func ListArticles(ctx *gin.Context) {
	var articles []models.Article

	query := db.DB.Preload("Tags").Order("publication_date DESC")

	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Find(&articles).Error; err != nil {
		log.Printf("Failed to list articles: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve articles"})
		return
	}

	response := make([]types.ArticleResponse, 0, len(articles))

	for _, article := range articles {
		response = append(response, types.NewArticleResponse(article))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetArticle(ctx *gin.Context) {
	var article models.Article

	err := db.DB.Preload("Tags").Where("slug = ?", ctx.Param("slug")).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		} else {
			log.Printf("Failed to fetch article: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve article"})
		}
		return
	}

	ctx.JSON(http.StatusOK, types.NewArticleResponse(article))
}

// CreateArticle publishes an article, creating any tags it names on the fly.
// Admin only.
func CreateArticle(ctx *gin.Context) {
	var body CreateArticleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !types.IsValidCategory(body.Category) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article category"})
		return
	}

	publicationDate := time.Now()
	if body.PublicationDate != "" {
		parsed, err := time.Parse("2006-01-02", body.PublicationDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "publication_date must be YYYY-MM-DD"})
			return
		}
		publicationDate = parsed
	}

	article := models.Article{
		Category:        body.Category,
		Title:           body.Title,
		Content:         body.Content,
		PublicationDate: publicationDate,
		MainImage:       body.MainImage,
		ExternalLink:    body.ExternalLink,
	}

	for _, name := range body.Tags {
		var tag models.Tag
		if err := db.DB.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			log.Printf("Failed to create tag %q: %v", name, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create article"})
			return
		}
		article.Tags = append(article.Tags, tag)
	}

	if err := db.DB.Create(&article).Error; err != nil {
		log.Printf("Failed to create article: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create article"})
		return
	}

	ctx.JSON(http.StatusCreated, types.NewArticleResponse(article))
}

func ListTags(ctx *gin.Context) {
	var tags []models.Tag

	if err := db.DB.Order("name").Find(&tags).Error; err != nil {
		log.Printf("Failed to list tags: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tags"})
		return
	}

	response := make([]types.TagResponse, 0, len(tags))

	for _, tag := range tags {
		response = append(response, types.TagResponse{Name: tag.Name, Slug: tag.Slug})
	}

	ctx.JSON(http.StatusOK, response)
}
