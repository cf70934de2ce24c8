package dbhelper

import (
	"fmt"

	"gorm.io/gorm"

	"wardrobeapi/logger"
	"wardrobeapi/models"
)

func SetupCleaner(db *gorm.DB) func() {
	return func() {
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Outfit{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ClothingItem{})
	}
}

func Migrate(db *gorm.DB, model interface{}) error {
	if err := db.AutoMigrate(model); err != nil {
		logger.Log.Errorf("Error while migrating %T: %v", model, err)
		return fmt.Errorf("migrate %T: %w", model, err)
	}
	return nil
}
