package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

type Config struct {
	DSN              string
	MaxConns         int32
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB is the ledger database handle. Postgres connections come from a pgx pool
// wrapped as *sql.DB so both backends share one query path.
type DB struct {
	*sql.DB
	Dialect Dialect
	pool    *pgxpool.Pool
}

// DialectOf picks the backend from the DSN scheme; anything that is not a
// postgres URL is treated as a SQLite path or file: URI.
func DialectOf(dsn string) Dialect {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return Postgres
	}
	return SQLite
}

// Open connects to the ledger and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("ledger dsn is required")
	}

	dialect := DialectOf(cfg.DSN)
	logger.Info("connecting to ledger", "dialect", dialect)

	var (
		d   *DB
		err error
	)
	switch dialect {
	case Postgres:
		d, err = openPostgres(ctx, cfg)
	default:
		d, err = openSQLite(cfg)
	}
	if err != nil {
		logger.Error("failed to connect to ledger", "error", err)
		return nil, err
	}

	if err := d.migrate(ctx); err != nil {
		d.Close(logger)
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}
	logger.Info("successfully connected to ledger")
	return d, nil
}

func openPostgres(ctx context.Context, cfg Config) (*DB, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "resume-extractor"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{DB: stdlib.OpenDBFromPool(pool), Dialect: Postgres, pool: pool}, nil
}

func openSQLite(cfg Config) (*DB, error) {
	dsn := strings.TrimPrefix(strings.TrimSpace(cfg.DSN), "sqlite://")
	if !strings.Contains(dsn, "_pragma=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer; concurrent workers serialize on the connection
	db.SetMaxOpenConns(1)
	return &DB{DB: db, Dialect: SQLite}, nil
}

// Close closes the database connections gracefully.
func (d *DB) Close(logger *slog.Logger) {
	if d == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("closing ledger connections")
	if err := d.DB.Close(); err != nil {
		logger.Error("failed to close ledger", "error", err)
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// HealthCheck pings the database within timeout.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("pinging ledger", "dialect", d.Dialect)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	return d.PingContext(ctx)
}

// rebind rewrites ? placeholders to $n for postgres.
func (d *DB) rebind(q string) string {
	if d.Dialect != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS run (
	  id          TEXT PRIMARY KEY,
	  input_dir   TEXT NOT NULL,
	  started_at  BIGINT NOT NULL,
	  finished_at BIGINT,
	  scanned     INTEGER NOT NULL DEFAULT 0,
	  succeeded   INTEGER NOT NULL DEFAULT 0,
	  skipped     INTEGER NOT NULL DEFAULT 0,
	  failed      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_run_started_at ON run(started_at)`,
	`CREATE TABLE IF NOT EXISTS document_outcome (
	  run_id        TEXT NOT NULL REFERENCES run(id),
	  idx           INTEGER NOT NULL,
	  document_id   TEXT NOT NULL,
	  source_path   TEXT NOT NULL,
	  content_hash  TEXT NOT NULL DEFAULT '',
	  format        TEXT NOT NULL DEFAULT '',
	  status        TEXT NOT NULL,
	  error_message TEXT NOT NULL DEFAULT '',
	  record_json   TEXT,
	  created_at    BIGINT NOT NULL,
	  PRIMARY KEY (run_id, idx)
	)`,
}

func (d *DB) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
