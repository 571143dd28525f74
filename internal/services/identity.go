package services

import (
	"errors"
	"strings"
	"time"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	FirstName        string
	LastName         string
	PhoneNumber      string
	Organization     string
	JobTitle         string
	Bio              string
	SubscriptionType string
}

// Register creates a new account. Username and email are lowercased and
// trimmed before both the pre-check and the insert; the unique indexes catch
// whatever two concurrent registrations slip past the pre-check.
func Register(in RegisterInput) (*models.User, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	verr := &ValidationError{}
	if in.Username == "" {
		verr.Add("username is required")
	}
	if in.Email == "" {
		verr.Add("email is required")
	}
	if len(in.Password) < 8 {
		verr.Add("password must be at least 8 characters")
	}
	if in.SubscriptionType == "" {
		in.SubscriptionType = types.SubscriptionFree
	}
	if !types.IsValidSubscription(in.SubscriptionType) {
		verr.Add("invalid subscription type %q", in.SubscriptionType)
	}
	if verr.HasProblems() {
		return nil, verr
	}

	if dup := findIdentityConflicts(0, in.Username, in.Email); len(dup) > 0 {
		return nil, &DuplicateIdentityError{Fields: dup}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:          in.Username,
		Email:             in.Email,
		PasswordHash:      string(passwordHash),
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		PhoneNumber:       in.PhoneNumber,
		Organization:      in.Organization,
		JobTitle:          in.JobTitle,
		Bio:               in.Bio,
		SubscriptionType:  in.SubscriptionType,
		VerificationToken: uuid.NewString(),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			// Lost a race with a concurrent insert. Re-check to name the
			// offending field(s).
			if dup := findIdentityConflicts(0, in.Username, in.Email); len(dup) > 0 {
				return nil, &DuplicateIdentityError{Fields: dup}
			}
			return nil, &DuplicateIdentityError{Fields: []string{"username"}}
		}
		return nil, err
	}

	return &user, nil
}

// Authenticate matches identifier against username or email,
// case-insensitively. It is the only path that touches the failed-login
// counter: each failure increments it and locks the account at the configured
// threshold, each success resets it.
func Authenticate(identifier, password string) (*models.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var user models.User
	err := db.DB.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		now := time.Now()
		updates := map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts + 1,
			"last_failed_login":     &now,
		}
		if user.FailedLoginAttempts+1 >= types.LockoutThreshold {
			updates["is_locked"] = true
		}
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 {
		if err := db.DB.Model(&user).Update("failed_login_attempts", 0).Error; err != nil {
			return nil, err
		}
		user.FailedLoginAttempts = 0
	}

	return &user, nil
}

type UpdateProfileInput struct {
	Email        *string
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	Organization *string
	JobTitle     *string
	Bio          *string
	NewPassword  *string
}

// UpdateProfile direct-sets profile fields and re-hashes only on password
// change. An email change goes through the same case-insensitive uniqueness
// check as registration.
func UpdateProfile(userID uint, in UpdateProfileInput) (*models.User, error) {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})

	if in.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*in.Email))
		if newEmail == "" {
			return nil, &ValidationError{Problems: []string{"email must not be blank"}}
		}
		if newEmail != user.Email {
			if dup := findIdentityConflicts(user.ID, "", newEmail); len(dup) > 0 {
				return nil, &DuplicateIdentityError{Fields: dup}
			}
			updates["email"] = newEmail
		}
	}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.PhoneNumber != nil {
		updates["phone_number"] = *in.PhoneNumber
	}
	if in.Organization != nil {
		updates["organization"] = *in.Organization
	}
	if in.JobTitle != nil {
		updates["job_title"] = *in.JobTitle
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.NewPassword != nil {
		if len(*in.NewPassword) < 8 {
			return nil, &ValidationError{Problems: []string{"password must be at least 8 characters"}}
		}
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(passwordHash)
	}

	if len(updates) == 0 {
		return &user, nil
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, &DuplicateIdentityError{Fields: []string{"email"}}
		}
		return nil, err
	}

	if err := db.DB.First(&user, user.ID).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// VerifyEmail marks the account verified when the token matches.
func VerifyEmail(token string) (*models.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &ValidationError{Problems: []string{"verification token is required"}}
	}

	var user models.User
	err := db.DB.Where("verification_token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"is_verified":        true,
		"verification_token": "",
	}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	return &user, nil
}

// UnlockUser is the manual admin unlock: clears the lock and the counter.
func UnlockUser(userID uint) error {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return db.DB.Model(&user).Updates(map[string]interface{}{
		"is_locked":             false,
		"failed_login_attempts": 0,
	}).Error
}

// DeleteAccount removes the user for good. Purchase log entries are detached
// rather than deleted: they keep the recorded numeric id and snapshot taken
// at write time.
func DeleteAccount(userID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&models.PurchaseLog{}).
			Where("user_id = ?", user.ID).
			Update("user_id", nil).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&user).Error
	})
}

// findIdentityConflicts reports which of username/email already belong to a
// different account. Empty arguments are skipped.
func findIdentityConflicts(excludeID uint, username, email string) []string {
	var fields []string

	if username != "" {
		var count int64
		db.DB.Model(&models.User{}).
			Where("username = ? AND id != ?", username, excludeID).
			Count(&count)
		if count > 0 {
			fields = append(fields, "username")
		}
	}

	if email != "" {
		var count int64
		db.DB.Model(&models.User{}).
			Where("email = ? AND id != ?", email, excludeID).
			Count(&count)
		if count > 0 {
			fields = append(fields, "email")
		}
	}

	return fields
}
