package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/esgboard-dev/esgboard/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type NoteResponse struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
	AuthorName string `json:"author_name"`
}

func CreateNote(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateNoteRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	note := models.Note{
		Title:    body.Title,
		Content:  body.Content,
		AuthorID: currentUser.ID,
	}

	if err := db.DB.Create(&note).Error; err != nil {
		log.Printf("Failed to create note: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	ctx.JSON(http.StatusCreated, NoteResponse{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		CreatedAt:  note.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		AuthorName: currentUser.Username,
	})
}

func ListNotes(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var notes []models.Note

	if err := db.DB.Where("author_id = ?", currentUser.ID).Order("created_at DESC").Find(&notes).Error; err != nil {
		log.Printf("Failed to list notes: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	response := make([]NoteResponse, 0, len(notes))

	for _, note := range notes {
		response = append(response, NoteResponse{
			ID:         note.ID,
			Title:      note.Title,
			Content:    note.Content,
			CreatedAt:  note.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			AuthorName: currentUser.Username,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func DeleteNote(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var note models.Note
	noteID := ctx.Param("id")

	if err := db.DB.Where("id = ? AND author_id = ?", noteID, currentUser.ID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		}
		return
	}

	if err := db.DB.Delete(&note).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
