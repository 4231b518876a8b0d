package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Catalog
		&types.Peptide{},
		&types.Effect{},

		// Community reports
		&types.Experience{},
		&types.Vote{},

		// Users
		&types.UserProfile{},
	)
}
