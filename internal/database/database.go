package database

import (
	"fmt"
	"strings"
	"time"

	"hashwatch/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the backing store and runs migrations. SQLite is used for
// file paths and :memory: DSNs, MySQL for everything else.
func Initialize(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if isSQLiteDSN(databaseURL) {
		dialector = sqlite.Open(databaseURL)
	} else {
		dialector = mysql.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.CoinHistory{}, &models.HistoryEntry{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func isSQLiteDSN(dsn string) bool {
	if strings.Contains(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return true
	}
	// MySQL DSNs carry an @tcp(...) or user:pass@ section.
	if strings.Contains(dsn, "@tcp(") || strings.Contains(dsn, "@unix(") {
		return false
	}
	return strings.HasSuffix(dsn, ".db") || strings.HasSuffix(dsn, ".sqlite")
}
