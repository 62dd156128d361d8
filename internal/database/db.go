// Package database provides the SQLite concordance cache of the calendar API.
// Every row can be recomputed from the calendar package.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var (
	// ErrNotFound is returned when a day or year is not cached.
	ErrNotFound = errors.New("record not found")

	// ErrSchemaBehind is returned by Health when migrations are pending.
	ErrSchemaBehind = errors.New("cache schema not migrated")
)

// IsNotFound reports whether err means the requested day or year is not cached.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// DB is the concordance cache.
type DB struct {
	*sql.DB
	path   string
	logger *slog.Logger
}

// Config holds the cache file location and pool settings.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// BusyTimeout is how long a writer waits for the file lock. Zero means
	// five seconds.
	BusyTimeout time.Duration
}

// DefaultConfig returns a single-connection pool. SQLite serialises writers,
// and an in-memory cache only exists on the connection that created it.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

// dsn appends the driver pragmas to the cache path.
func (c Config) dsn() string {
	busy := c.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", fmt.Sprint(busy.Milliseconds()))
	return c.Path + "?" + q.Encode()
}

// Open opens the cache file, creating its directory if needed, and checks
// that it answers. The caller closes it.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", cfg.Path, err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping cache %s: %w", cfg.Path, err)
	}

	logger.Info("concordance cache opened", slog.String("path", cfg.Path))
	return &DB{DB: sqlDB, path: cfg.Path, logger: logger}, nil
}

// Close closes the cache.
func (db *DB) Close() error {
	db.logger.Info("concordance cache closed", slog.String("path", db.path))
	return db.DB.Close()
}

// Health reports whether the cache answers and carries every migration.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if latest := latestVersion(); version < latest {
		return fmt.Errorf("%w: version %d of %d", ErrSchemaBehind, version, latest)
	}
	return nil
}

// SchemaVersion returns the highest applied migration, or 0 for a new file.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'`,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("query cache schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return int(version.Int64), nil
}

func latestVersion() int {
	return slices.Max(slices.Collect(maps.Keys(migrationsSQL)))
}

// Migrate brings the cache schema up to date in one transaction and returns
// the number of migrations applied.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	applied := 0
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version    INTEGER PRIMARY KEY,
				applied_at TEXT NOT NULL DEFAULT (datetime('now'))
			)
		`)
		if err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}

		var current sql.NullInt64
		if err := tx.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
			return fmt.Errorf("query schema version: %w", err)
		}

		for _, version := range slices.Sorted(maps.Keys(migrationsSQL)) {
			if int64(version) <= current.Int64 {
				continue
			}
			if _, err := tx.ExecContext(ctx, migrationsSQL[version]); err != nil {
				return fmt.Errorf("apply migration %d: %w", version, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
				return fmt.Errorf("record migration %d: %w", version, err)
			}
			db.logger.Debug("cache migration applied", slog.Int("version", version))
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	db.logger.Info("cache schema up to date",
		slog.Int("applied", applied),
		slog.Int("version", latestVersion()),
	)
	return applied, nil
}

// WithTx runs fn in a transaction. It commits when fn succeeds and rolls back
// otherwise; a failed rollback is joined to fn's error.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache transaction: %w", err)
	}
	return nil
}
