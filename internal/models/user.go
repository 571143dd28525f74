package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Profile fields
	FirstName    string
	LastName     string
	PhoneNumber  string
	Organization string
	JobTitle     string
	Bio          string

	// Subscription/access fields
	SubscriptionType    string `gorm:"not null;default:free"` // "free", "basic", "premium", "enterprise"
	SubscriptionExpires *time.Time
	IsVerified          bool   `gorm:"default:false"`
	VerificationToken   string `gorm:"index"`
	IsStaff             bool   `gorm:"default:false"`

	// Login tracking
	FailedLoginAttempts int `gorm:"default:0"`
	LastFailedLogin     *time.Time
	IsLocked            bool `gorm:"default:false"`

	// Relationships
	AssignedCompanies []UserCompany `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	OwnedReports      []UserReport  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notes             []Note        `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Portfolios        []Portfolio   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	PurchaseLogs      []PurchaseLog `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

// BeforeSave lowercases and trims username and email so lookups stay
// case-insensitive. The unique indexes on the normalized columns back this
// up under concurrent inserts.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// FullName returns the user's display name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
