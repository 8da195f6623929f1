package store

import (
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrate runs pending SQL migrations from dir against the connected database.
func Migrate(db *DB, dir string, log *zap.Logger) error {
	if db == nil || db.Client == nil {
		return fmt.Errorf("migrate: no database connection")
	}
	if log == nil {
		log = zap.NewNop()
	}

	driver, err := pgxmigrate.WithInstance(db.Client, &pgxmigrate.Config{})
	if err != nil {
		return err
	}

	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(dir))
	m, err := migrate.NewWithDatabaseInstance(sourceURL, "msdbc", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	log.Info("database migrations applied")
	return nil
}
