package services

import (
	"encoding/json"
	"time"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
)

// RecordPurchase appends one entry to the purchase log. The entry carries a
// denormalized copy of the numeric user id and an identity snapshot, so it
// stays meaningful after the account is deleted. The log is append-only:
// nothing in this package updates or deletes entries.
func RecordPurchase(user *models.User, companyName string) (*models.PurchaseLog, error) {
	entry := models.PurchaseLog{
		CompanyName: companyName,
		Timestamp:   time.Now(),
	}

	if user != nil {
		id := user.ID
		recorded := int(user.ID)
		entry.UserID = &id
		entry.UserIDRecorded = &recorded

		snapshot, err := json.Marshal(models.UserSnapshotData{
			Username:     user.Username,
			Email:        user.Email,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			Organization: user.Organization,
			JobTitle:     user.JobTitle,
			PhoneNumber:  user.PhoneNumber,
		})
		if err != nil {
			return nil, err
		}
		entry.UserSnapshot = snapshot
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		return nil, err
	}

	entry.User = user
	return &entry, nil
}

// ListPurchaseLogs returns all log entries, newest first.
func ListPurchaseLogs() ([]models.PurchaseLog, error) {
	var entries []models.PurchaseLog
	err := db.DB.Preload("User").
		Order("timestamp DESC").
		Find(&entries).Error
	return entries, err
}
