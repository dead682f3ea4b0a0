package database

import (
	"github.com/chachabrian/ridebook-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.RideBooking{}); err != nil {
		return err
	}

	// Rows written before the shared arrays were NOT NULL
	statements := []string{
		`UPDATE rides SET shared_user_ids = '{}' WHERE shared_user_ids IS NULL`,
		`UPDATE rides SET shared_user_names = '{}' WHERE shared_user_names IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_rides_shared_user_ids ON rides USING GIN (shared_user_ids)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
