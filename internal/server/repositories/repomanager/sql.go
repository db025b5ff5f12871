package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/logkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/logkeeper/internal/server/repositories/logs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager vends SQL-backed repositories over a single *sql.DB
// and runs the embedded goose migrations for its dialect.
type SQLRepositoryManager struct {
	db           *sql.DB
	dialect      logs.Dialect
	gooseDialect string
	dir          string
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func openPostgres(ctx context.Context, dsn string) (*SQLRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewSQLRepositoryManager(db, logs.DialectPostgres), nil
}

func openSQLite(ctx context.Context, dsn string) (*SQLRepositoryManager, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows one writer; a single connection also keeps
	// in-memory databases alive for the lifetime of the pool.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return NewSQLRepositoryManager(db, logs.DialectSQLite), nil
}

// NewSQLRepositoryManager wraps an already opened database.
func NewSQLRepositoryManager(db *sql.DB, dialect logs.Dialect) *SQLRepositoryManager {
	m := &SQLRepositoryManager{db: db, dialect: dialect}
	switch dialect {
	case logs.DialectPostgres:
		m.gooseDialect, m.dir = "postgres", migrations.PostgresDir
	default:
		m.gooseDialect, m.dir = "sqlite3", migrations.SQLiteDir
	}
	return m
}

func (m *SQLRepositoryManager) Logs() logs.Repository {
	return logs.NewSQLRepository(m.db, m.dialect)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the managed database.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.gooseDialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, m.dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
