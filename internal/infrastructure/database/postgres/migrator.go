package postgres

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // Postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // File source driver

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
)

// migrateAPI is the subset of *migrate.Migrate the Migrator drives.
type migrateAPI interface {
	Up() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	Close() (error, error)
}

// newMigrate is a variable to allow mocking in tests.
var newMigrate = func(sourceURL, databaseURL string) (migrateAPI, error) {
	return migrate.New(sourceURL, databaseURL)
}

// Migrator applies the sds_records schema from a migrations directory.  It
// backs `sdsctl migrate`.
type Migrator struct {
	m      migrateAPI
	logger logging.Logger
}

// NewMigrator opens a migrate instance for cfg.  path is a directory or a
// source URL; bare directories get the file:// scheme.
func NewMigrator(cfg PostgresConfig, path string, log logging.Logger) (*Migrator, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	m, err := newMigrate(SourceURL(path), DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{m: m, logger: log}, nil
}

// SourceURL turns a migrations directory into a migrate source URL.
func SourceURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return "file://" + path
}

// Up applies all pending migrations.  Being up to date is not an error.
func (g *Migrator) Up() error {
	if err := g.m.Up(); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			g.logger.Info("schema already up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	v, _, _ := g.Status()
	g.logger.Info("migrations applied", logging.Int64("version", int64(v)))
	return nil
}

// Down rolls back steps migrations.
func (g *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0, got %d", steps)
	}
	if err := g.m.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("no migrations to roll back")
		}
		return fmt.Errorf("failed to rollback %d step(s): %w", steps, err)
	}
	g.logger.Info("migrations rolled back", logging.Int("steps", steps))
	return nil
}

// Status returns the applied version and whether a previous run left the
// schema dirty.  An unmigrated database reports version 0.
func (g *Migrator) Status() (version uint, dirty bool, err error) {
	version, dirty, err = g.m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force marks version as applied without running it, clearing a dirty flag.
func (g *Migrator) Force(version int) error {
	if err := g.m.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	g.logger.Warn("migration version forced", logging.Int("version", version))
	return nil
}

// Close releases the source and database handles.
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

//Personal.AI order the ending
