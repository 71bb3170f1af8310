package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cwtshtodo/internal/model"
)

// SchemaVersion is the schema this build of the app expects. Bump it when a
// new collection or index is added; upgrades are additive only.
const SchemaVersion = 2

// schemaMeta is a single-row table recording the last applied schema version.
type schemaMeta struct {
	ID        uint `gorm:"primaryKey"`
	Version   int
	UpdatedAt time.Time
}

func (schemaMeta) TableName() string { return "schema_meta" }

// NewDB opens a SQLite database and brings the schema up to SchemaVersion.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "cwtshtodo.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := upgradeSchema(db); err != nil {
		return nil, err
	}

	return db, nil
}

// upgradeSchema compares the persisted schema version against SchemaVersion
// and, when behind, creates any missing tables and indexes. Existing rows are
// never touched, so re-running the upgrade is safe.
func upgradeSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&schemaMeta{}); err != nil {
		return fmt.Errorf("migrate schema meta: %w", err)
	}

	var meta schemaMeta
	err := db.First(&meta).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		meta = schemaMeta{ID: 1, Version: 0}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}

	if meta.Version >= SchemaVersion {
		return nil
	}

	if err := db.AutoMigrate(
		&model.Task{},
		&model.Category{},
		&model.FocusSession{},
		&model.Habit{},
		&model.HabitLog{},
	); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}

	meta.Version = SchemaVersion
	meta.UpdatedAt = time.Now()
	if err := db.Save(&meta).Error; err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
