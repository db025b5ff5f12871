// Package logs provides storage backends for log records: an in-memory
// slice (the default) and a database/sql implementation that serves both
// PostgreSQL and SQLite.
package logs

import (
	"context"

	"github.com/dmitrijs2005/logkeeper/internal/server/models"
)

// Repository stores log records in insertion order. It performs no
// validation; that is the service's job.
type Repository interface {
	// All returns every record in insertion order.
	All(ctx context.Context) ([]*models.Log, error)

	// GetByID returns common.ErrorNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (*models.Log, error)

	// Insert appends a record. The id must already be assigned.
	Insert(ctx context.Context, log *models.Log) error

	// Update replaces owner, log text and updated_at of an existing record
	// and returns the stored result. created_at is never touched.
	Update(ctx context.Context, log *models.Log) (*models.Log, error)

	// Delete removes a record and returns what was removed.
	Delete(ctx context.Context, id string) (*models.Log, error)
}
