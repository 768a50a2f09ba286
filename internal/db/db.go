package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"

	"github.com/hpungsan/seodraft/internal/config"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// DefaultFileName is the sqlite database file created under the base dir.
const DefaultFileName = "seodraft.db"

// Store is the relational post and publish-queue store.
// It is safe for concurrent use; write serialization is left to the database.
type Store struct {
	db     *sqlx.DB
	driver string
	sb     sq.StatementBuilderType
}

// Open connects to the configured database and applies migrations.
// For sqlite the file lives at baseDir/seodraft.db unless cfg.DSN names a path.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.seodraft.
func Open(cfg config.DatabaseConfig, baseDir string) (*Store, error) {
	var (
		s   *Store
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		s, err = openPostgres(cfg.DSN)
	case config.DriverSQLite, "":
		s, err = openSQLite(cfg.DSN, baseDir)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	ConfigurePool(s.db, cfg)
	return s, nil
}

func openSQLite(path, baseDir string) (*Store, error) {
	// Create base directory with restricted permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	if path == "" {
		path = filepath.Join(baseDir, DefaultFileName)
	}

	// Pragmas in the connection string apply to every pooled connection.
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	if err := migrateSQLite(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	// Set file permissions after file exists (best-effort)
	_ = os.Chmod(path, 0600)

	return &Store{
		db:     sqlx.NewDb(sqlDB, "sqlite"),
		driver: config.DriverSQLite,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

func openPostgres(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	xdb, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migratePostgres(xdb.DB); err != nil {
		xdb.Close()
		return nil, err
	}

	return &Store{
		db:     xdb,
		driver: config.DriverPostgres,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sqlx.DB, cfg config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
}

// Driver returns "sqlite" or "postgres".
func (s *Store) Driver() string { return s.driver }

// Ping runs a trivial query to prove the store answers.
func (s *Store) Ping(ctx context.Context) error {
	var ok int
	if err := s.db.QueryRowxContext(ctx, "SELECT 1").Scan(&ok); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}
