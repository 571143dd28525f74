package services

import (
	"fmt"
	"testing"

	"github.com/esgboard-dev/esgboard/db"
	"github.com/esgboard-dev/esgboard/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-global connection at a fresh in-memory
// database for one test. TranslateError is on, as in production, so the
// duplicate-key paths behave the same way.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gormDB.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.UserCompany{},
		&models.Fund{},
		&models.Report{},
		&models.UserReport{},
		&models.Note{},
		&models.PurchaseLog{},
		&models.Tag{},
		&models.Article{},
		&models.Portfolio{},
		&models.PortfolioCompany{},
	))

	db.DB = gormDB
}

func createTestUser(t *testing.T, username, email string) *models.User {
	t.Helper()

	user, err := Register(RegisterInput{
		Username: username,
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

func createTestCompany(t *testing.T, isin, name string) models.Company {
	t.Helper()

	company := models.Company{
		ISIN:        isin,
		CompanyName: name,
		Sector:      "Energy",
		ESGRating:   "A",
		Grade:       "A",
		ESGScore:    "71.5",
	}
	require.NoError(t, db.DB.Create(&company).Error)
	return company
}
