package testhelpers

import (
	"fmt"
	"testing"

	"github.com/arnav127/sports-ladder/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an isolated in-memory SQLite database with the full
// schema migrated. TranslateError is enabled so unique-constraint violations
// surface as gorm.ErrDuplicatedKey, same as the postgres setup in main.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to open test database: %v", err))
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Sport{},
		&models.PlayerProfile{},
		&models.Match{},
		&models.RatingHistory{},
	); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}
	return db
}

// DropMatchTable removes the matches table to force repository errors.
func DropMatchTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Migrator().DropTable(&models.Match{}); err != nil {
		panic(fmt.Sprintf("failed to drop match table: %v", err))
	}
}
