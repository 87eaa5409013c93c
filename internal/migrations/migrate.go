// Package migrations applies the embedded SQL migrations at startup.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Up applies all pending migrations against the given database URL. A database
// that is already up to date is not an error.
func Up(databaseURL string) error {
	source, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	// The pgx/v5 driver registers itself under the pgx5 scheme.
	databaseURL = strings.Replace(databaseURL, "postgres://", "pgx5://", 1)

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}

	log.Info("Applied database migrations")
	return nil
}
