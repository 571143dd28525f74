package db

import (
	"github.com/esgboard-dev/esgboard/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	// TranslateError turns driver duplicate-key failures into
	// gorm.ErrDuplicatedKey so races on the unique indexes can be mapped to
	// the regular validation errors.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
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
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
