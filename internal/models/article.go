package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Article struct {
	gorm.Model

	Category        string `gorm:"not null;index;size:50"` // "INSTITUTIONAL_EYE", "SPECIALS"
	Title           string `gorm:"not null;size:255"`
	Slug            string `gorm:"uniqueIndex;size:255"`
	MainImage       string
	PublicationDate time.Time `gorm:"not null;index"`
	Content         string    `gorm:"not null"`
	ExternalLink    string

	// Relationships
	Tags []Tag `gorm:"many2many:article_tags"`
}

func (a *Article) BeforeSave(tx *gorm.DB) error {
	if a.Slug == "" {
		a.Slug = slug.Make(a.Title)
	}
	return nil
}
