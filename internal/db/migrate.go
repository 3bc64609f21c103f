package db

import (
	"github.com/sinedd777/resume-reviewer/internal/domain"

	"gorm.io/gorm"
)

// Migrate creates or updates the documents and comments tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Resume{},
		&domain.Comment{},
	)
}
