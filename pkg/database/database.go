package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"github.com/Tristal25/watchlist/pkg/models"
)

// Open connects to the SQLite database at path and migrates the schema.
// Use ":memory:" for an in-memory database (tests).
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Movie{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return db, nil
}

// Reset drops both tables and recreates them, discarding all data.
func Reset(db *gorm.DB) error {
	if err := db.DropTableIfExists(&models.User{}, &models.Movie{}).Error; err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Movie{}).Error; err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
