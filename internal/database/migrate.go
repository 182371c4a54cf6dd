package database

import (
	"gorm.io/gorm"

	"github.com/duscraft/garry/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Warranty{},
	)
}
