package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
// Order matters for foreign keys.
func AllModels() []any {
	return []any{
		&Dataset{},
		&Observation{},
	}
}

// DDLModels returns models that generate their own DDL.
func DDLModels() []DDLGenerator {
	return []DDLGenerator{
		Dataset{},
		Observation{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
