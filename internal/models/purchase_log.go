package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// PurchaseLog is an append-only record of report purchases/requests. The user
// reference is nullable so entries survive account deletion; the numeric id
// and an identity snapshot are denormalized into the row at write time.
type PurchaseLog struct {
	ID uint `gorm:"primarykey"`

	UserID         *uint
	UserIDRecorded *int
	CompanyName    string         `gorm:"size:255"`
	UserSnapshot   datatypes.JSON `gorm:"type:jsonb"`
	Timestamp      time.Time      `gorm:"not null;index"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

// UserSnapshotData is the identity captured into UserSnapshot when the entry
// is written, so the log stays meaningful after the account changes or goes.
type UserSnapshotData struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization"`
	JobTitle     string `json:"job_title"`
	PhoneNumber  string `json:"phone_number"`
}

// DisplayName renders who made the purchase, falling back to the recorded
// numeric id when the account has been deleted.
func (p *PurchaseLog) DisplayName() string {
	if p.User != nil {
		return p.User.Username
	}
	if p.UserIDRecorded != nil {
		return fmt.Sprintf("Deleted User (ID: %d)", *p.UserIDRecorded)
	}
	return "Unknown User"
}

func (p *PurchaseLog) String() string {
	s := "Purchase by " + p.DisplayName()
	if p.CompanyName != "" {
		s += " for " + p.CompanyName
	}
	return s + " at " + p.Timestamp.Format("2006-01-02 15:04")
}
