package logs

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/logkeeper/internal/common"
	"github.com/dmitrijs2005/logkeeper/internal/server/models"
)

// MemoryRepository keeps records in a slice for the lifetime of the process.
// Records are copied on the way in and out.
type MemoryRepository struct {
	mu   sync.RWMutex
	logs []*models.Log
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) All(ctx context.Context) ([]*models.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Log, 0, len(r.logs))
	for _, l := range r.logs {
		result = append(result, l.Clone())
	}
	return result, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("log %s: %w", id, common.ErrorNotFound)
	}
	return r.logs[i].Clone(), nil
}

func (r *MemoryRepository) Insert(ctx context.Context, log *models.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(log.ID) >= 0 {
		return fmt.Errorf("log %s already exists", log.ID)
	}
	r.logs = append(r.logs, log.Clone())
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, log *models.Log) (*models.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(log.ID)
	if i < 0 {
		return nil, fmt.Errorf("log %s: %w", log.ID, common.ErrorNotFound)
	}

	stored := r.logs[i]
	stored.Owner = log.Owner
	stored.LogText = log.LogText
	stored.UpdatedAt = log.UpdatedAt

	return stored.Clone(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (*models.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("log %s: %w", id, common.ErrorNotFound)
	}

	removed := r.logs[i]
	r.logs = append(r.logs[:i], r.logs[i+1:]...)
	return removed, nil
}

func (r *MemoryRepository) indexOf(id string) int {
	for i, l := range r.logs {
		if l.ID == id {
			return i
		}
	}
	return -1
}
