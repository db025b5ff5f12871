// Package repomanager selects and opens the storage backend for log records
// and runs the schema migrations for the SQL backends.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/logkeeper/internal/server/repositories/logs"
)

// Supported store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultSQLiteDSN is used when the sqlite driver is selected without a DSN.
const DefaultSQLiteDSN = "logkeeper.db"

type RepositoryManager interface {
	Logs() logs.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}

// New opens the backend named by driver. SQL backends are pinged before
// returning; migrations are left to the caller.
func New(ctx context.Context, driver, dsn string) (RepositoryManager, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryRepositoryManager(), nil
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("database dsn is required for driver %q", driver)
		}
		return openPostgres(ctx, dsn)
	case DriverSQLite:
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		return openSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
