package logs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/logkeeper/internal/common"
	"github.com/dmitrijs2005/logkeeper/internal/dbx"
	"github.com/dmitrijs2005/logkeeper/internal/server/models"
)

// Dialect selects the placeholder style of the SQL backend.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// SQLRepository stores records in the "logs" table created by the embedded
// migrations. Insertion order is kept by the autoincrement seq column.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) q(query string) string {
	if r.dialect == DialectPostgres {
		return dbx.Rebind(query)
	}
	return query
}

func (r *SQLRepository) All(ctx context.Context) ([]*models.Log, error) {
	query := `SELECT id, owner, log_text, created_at, updated_at FROM logs ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, r.q(query))
	if err != nil {
		return nil, fmt.Errorf("failed to select logs: %w", err)
	}
	defer rows.Close()

	result := []*models.Log{}
	for rows.Next() {
		var item models.Log
		if err := rows.Scan(&item.ID, &item.Owner, &item.LogText, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Log, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *SQLRepository) getByID(ctx context.Context, db dbx.DBTX, id string) (*models.Log, error) {
	query := `SELECT id, owner, log_text, created_at, updated_at FROM logs WHERE id = ?`

	var item models.Log
	err := db.QueryRowContext(ctx, r.q(query), id).
		Scan(&item.ID, &item.Owner, &item.LogText, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("log %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select log: %w", err)
	}
	return &item, nil
}

func (r *SQLRepository) Insert(ctx context.Context, log *models.Log) error {
	query := `INSERT INTO logs (id, owner, log_text, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.q(query), log.ID, log.Owner, log.LogText, log.CreatedAt, log.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, log *models.Log) (*models.Log, error) {
	query := `UPDATE logs SET owner = ?, log_text = ?, updated_at = ? WHERE id = ?`

	var updated *models.Log
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, r.q(query), log.Owner, log.LogText, log.UpdatedAt, log.ID)
		if err != nil {
			return fmt.Errorf("failed to update log: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected error: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("log %s: %w", log.ID, common.ErrorNotFound)
		}

		updated, err = r.getByID(ctx, tx, log.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) (*models.Log, error) {
	query := `DELETE FROM logs WHERE id = ?`

	var removed *models.Log
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		removed, err = r.getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, r.q(query), id); err != nil {
			return fmt.Errorf("failed to delete log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
