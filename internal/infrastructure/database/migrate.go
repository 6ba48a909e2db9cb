package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"prostavabot/internal/pkg/logger"
)

// RunMigrations brings the record schema in dir up to date. A schema left
// dirty by an interrupted run is reported and has to be fixed by hand.
func RunMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+filepath.ToSlash(dir), migrateURL(dsn))
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	defer m.Close()

	before, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case dirty:
		return fmt.Errorf("schema version %d is dirty", before)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("record schema up to date", zap.Uint("version", before))
			return nil
		}
		return fmt.Errorf("migration up: %w", err)
	}
	after, _, _ := m.Version()
	logger.Info("✅ record schema migrated", zap.Uint("from", before), zap.Uint("to", after))
	return nil
}

// migrateURL points golang-migrate at its pgx driver, which registers the
// pgx5 scheme instead of postgres.
func migrateURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}
