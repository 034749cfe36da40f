package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectPostgres opens the school database. Driver errors are
// translated, so a duplicate-key violation surfaces as
// gorm.ErrDuplicatedKey and handlers can answer 409 instead of leaking
// the raw constraint message.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to school database: %w", err)
	}

	return db, nil
}
