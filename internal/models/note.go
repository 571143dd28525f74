package models

import "gorm.io/gorm"

type Note struct {
	gorm.Model

	Title    string `gorm:"not null;size:100"`
	Content  string `gorm:"not null"`
	AuthorID uint   `gorm:"not null;index"`

	// Relationships
	Author User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
