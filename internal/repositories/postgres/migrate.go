package postgres

import (
	"github.com/olfat123/profile-creator/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table this service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.AccountRecordIndex{},
		&models.ProfileRecord{},
		&models.Attachment{},
	)
}
