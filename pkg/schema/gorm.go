package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate, parents
// before children.
func AllModels() []any {
	return []any{
		&User{},
		&ImportedCSV{},
		&Form{},
		&Section{},
		&Question{},
	}
}

// TableNames returns the tables created by Migrate, children before
// parents, in the order they can be dropped.
func TableNames() []string {
	return []string{
		"questions",
		"sections",
		"forms",
		"imported_csvs",
		"users",
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
