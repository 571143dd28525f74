package models

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Tag struct {
	gorm.Model

	Name string `gorm:"uniqueIndex;size:100;not null"`
	Slug string `gorm:"uniqueIndex;size:100"`
}

func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = slug.Make(t.Name)
	}
	return nil
}
