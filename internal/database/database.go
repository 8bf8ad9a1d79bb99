package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Store wraps the database connection together with a squirrel statement
// builder configured for the active driver's placeholder format.
type Store struct {
	db      *sql.DB
	driver  string
	builder sq.StatementBuilderType
}

// Config holds the storage configuration, loaded from the environment by the
// caller.
type Config struct {
	Driver        string // "postgres" or "sqlite"
	DSN           string
	AutoMigrate   bool
	MigrationsDir string
}

// Open connects to the configured database, verifies the connection and
// applies the schema (goose migrations on postgres, inline schema on sqlite).
func Open(ctx context.Context, cfg Config) (*Store, error) {
	driver := normalizeDriver(cfg.Driver)
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == "sqlite" && strings.Contains(cfg.DSN, ":memory:") {
		// Every pooled connection would otherwise see its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.AutoMigrate {
		switch driver {
		case "postgres":
			migrationsDir := cfg.MigrationsDir
			if migrationsDir == "" {
				migrationsDir = "migrations"
			}
			if err := goose.SetDialect("postgres"); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("set goose dialect: %w", err)
			}
			if err := goose.Up(db, migrationsDir); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		case "sqlite":
			if err := initSQLiteSchema(ctx, db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("init sqlite schema: %w", err)
			}
		default:
			_ = db.Close()
			return nil, fmt.Errorf("unsupported driver %q", driver)
		}
	}

	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == "postgres" {
		placeholder = sq.Dollar
	}

	return &Store{
		db:      db,
		driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}, nil
}

func normalizeDriver(driver string) string {
	d := strings.ToLower(strings.TrimSpace(driver))
	switch d {
	case "postgres", "pq":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return d
	}
}

// PostgresDSN assembles a lib/pq connection string from its parts.
func PostgresDSN(host, port, user, password, dbname, sslmode string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SQL returns the statement builder for the active driver.
func (s *Store) SQL() sq.StatementBuilderType {
	return s.builder
}

// Driver returns the normalized driver name.
func (s *Store) Driver() string {
	return s.driver
}

func initSQLiteSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS platform_settings (
    id INTEGER PRIMARY KEY,
    openai_api_key TEXT NOT NULL,
    deepgram_api_key TEXT NOT NULL,
    twilio_account_sid TEXT NOT NULL,
    rime_api_key TEXT NOT NULL,
    enable_barge_in_interruption INTEGER NOT NULL,
    play_latency_filler_phrase_on_timeout INTEGER NOT NULL,
    allow_auto_retry_on_failed_calls INTEGER NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS settings_audit_log (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    changed_at TIMESTAMP NOT NULL,
    actor TEXT NOT NULL,
    reason TEXT
);
CREATE TABLE IF NOT EXISTS settings_audit_fields (
    entry_id TEXT NOT NULL REFERENCES settings_audit_log(id),
    field_name TEXT NOT NULL,
    ord INTEGER NOT NULL,
    PRIMARY KEY (entry_id, field_name)
);
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS organizations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    org_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    subscription_status TEXT NOT NULL,
    active_agents INTEGER NOT NULL DEFAULT 0,
    monthly_minutes INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS agents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    agent_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    organization_name TEXT NOT NULL,
    model TEXT NOT NULL,
    voice_id TEXT NOT NULL,
    twilio_number TEXT NOT NULL,
    status TEXT NOT NULL,
    prompt TEXT NOT NULL DEFAULT '',
    prompt_version TEXT NOT NULL DEFAULT '',
    average_latency_ms INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS call_sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    call_id TEXT NOT NULL UNIQUE,
    agent_name TEXT NOT NULL,
    caller_number TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    duration_seconds INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    sentiment TEXT NOT NULL,
    recording_url TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_settings_audit_log_changed_at ON settings_audit_log(changed_at);
CREATE INDEX IF NOT EXISTS idx_settings_audit_fields_field ON settings_audit_fields(field_name);
CREATE INDEX IF NOT EXISTS idx_call_sessions_started_at ON call_sessions(started_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}
