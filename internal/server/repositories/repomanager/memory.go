package repomanager

import (
	"context"

	"github.com/dmitrijs2005/logkeeper/internal/server/repositories/logs"
)

// MemoryRepositoryManager keeps everything in process memory.
// Migrations and Close are no-ops.
type MemoryRepositoryManager struct {
	logs *logs.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{logs: logs.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Logs() logs.Repository {
	return m.logs
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
