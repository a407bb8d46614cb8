package database

import (
	"pomona-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN (Postgres pooler URL).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers.
// TranslateError surfaces unique-index violations as gorm.ErrDuplicatedKey so
// services can map them to their conflict errors.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
}

// AutoMigrate runs migrations for all engine models. Integer primary keys are
// DB autoincrement sequences, which is what keeps ids collision-free across
// concurrent callers.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.FarmerProfile{},
		&models.ReputationEvent{},
		&models.Certificate{},
		&models.TransitionRecord{},
		&models.PracticeLog{},
		&models.TreeRecord{},
	)
}
