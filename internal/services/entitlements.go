package services

import (
	"errors"
	"time"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"gorm.io/gorm"
)

// Entitlement grants follow a toggle-not-delete pattern: repeating a grant
// reactivates the existing row, revoking flips it inactive, and the row
// itself is never removed so the assignment history stays auditable.

// GrantCompany gives a user access to a company. Idempotent per
// (user, company): at most one row ever exists for the pair.
func GrantCompany(userID uint, isin string, grantorID *uint, notes string) (*models.UserCompany, error) {
	if err := ensureUserExists(userID); err != nil {
		return nil, err
	}

	var company models.Company
	if err := db.DB.First(&company, "isin = ?", isin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var grant models.UserCompany
	err := db.DB.Where("user_id = ? AND company_isin = ?", userID, isin).First(&grant).Error

	if err == nil {
		grant.IsActive = true
		grant.AssignedAt = time.Now()
		grant.AssignedByID = grantorID
		grant.Notes = notes
		if err := db.DB.Save(&grant).Error; err != nil {
			return nil, err
		}
		return &grant, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	grant = models.UserCompany{
		UserID:       userID,
		CompanyISIN:  isin,
		AssignedByID: grantorID,
		AssignedAt:   time.Now(),
		IsActive:     true,
		Notes:        notes,
	}

	if err := db.DB.Create(&grant).Error; err != nil {
		if isDuplicateKey(err) {
			// Concurrent grant for the same pair: reactivate the winner's row.
			return GrantCompany(userID, isin, grantorID, notes)
		}
		return nil, err
	}

	return &grant, nil
}

// RevokeCompany deactivates the grant, preserving the row for audit.
func RevokeCompany(userID uint, isin string) error {
	var grant models.UserCompany
	err := db.DB.Where("user_id = ? AND company_isin = ?", userID, isin).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return db.DB.Model(&grant).Update("is_active", false).Error
}

// ListActiveCompanies returns the user's active company grants with company
// data preloaded, most recently assigned first. Inactive grants stay hidden.
func ListActiveCompanies(userID uint) ([]models.UserCompany, error) {
	var grants []models.UserCompany
	err := db.DB.Preload("Company").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("assigned_at DESC").
		Find(&grants).Error
	return grants, err
}

// GrantReport is the parallel grant path for standalone reports.
func GrantReport(userID uint, reportID uint, grantorID *uint, notes string) (*models.UserReport, error) {
	if err := ensureUserExists(userID); err != nil {
		return nil, err
	}

	var report models.Report
	if err := db.DB.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var grant models.UserReport
	err := db.DB.Where("user_id = ? AND report_id = ?", userID, reportID).First(&grant).Error

	if err == nil {
		grant.IsActive = true
		grant.AssignedAt = time.Now()
		grant.AssignedByID = grantorID
		grant.Notes = notes
		if err := db.DB.Save(&grant).Error; err != nil {
			return nil, err
		}
		return &grant, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	grant = models.UserReport{
		UserID:       userID,
		ReportID:     reportID,
		AssignedByID: grantorID,
		AssignedAt:   time.Now(),
		IsActive:     true,
		Notes:        notes,
	}

	if err := db.DB.Create(&grant).Error; err != nil {
		if isDuplicateKey(err) {
			return GrantReport(userID, reportID, grantorID, notes)
		}
		return nil, err
	}

	return &grant, nil
}

func RevokeReport(userID uint, reportID uint) error {
	var grant models.UserReport
	err := db.DB.Where("user_id = ? AND report_id = ?", userID, reportID).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return db.DB.Model(&grant).Update("is_active", false).Error
}

func ListActiveReports(userID uint) ([]models.UserReport, error) {
	var grants []models.UserReport
	err := db.DB.Preload("Report").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("assigned_at DESC").
		Find(&grants).Error
	return grants, err
}

func ensureUserExists(userID uint) error {
	var count int64
	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
