package database

import (
	"gorm.io/gorm"

	"antesala/internal/storage"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&storage.DocumentRecord{},
	)
}
