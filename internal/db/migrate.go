package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrate(params NewDBPoolParams) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, params.ConnString("pgx5"))
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// MigrateUp applies all pending migrations. Being already up to date is not an error.
func MigrateUp(params NewDBPoolParams) error {
	m, err := newMigrate(params)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debugln("db migrations: no change")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Infof("db migrations applied, version: %d, dirty: %t", version, dirty)
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(params NewDBPoolParams, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("invalid migrate down steps: %d", steps)
	}

	m, err := newMigrate(params)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migrate down %d: %w", steps, err)
	}
	return nil
}

func closeMigrate(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Errorf("close migrations source: %s", srcErr)
	}
	if dbErr != nil {
		log.Errorf("close migrations db: %s", dbErr)
	}
}
