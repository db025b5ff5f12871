package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/logkeeper/internal/common"
	"github.com/dmitrijs2005/logkeeper/internal/server/models"
	"github.com/dmitrijs2005/logkeeper/internal/server/repositories/logs"
	"github.com/google/uuid"
)

// Seed record inserted into an empty store on startup.
const (
	SeedOwner   = "John Doe"
	SeedLogText = "Initial log entry for testing"
)

// LogService owns the rules of the record store: trimming, validation,
// id assignment and timestamps. Persistence is delegated to a logs.Repository.
type LogService struct {
	repo  logs.Repository
	now   func() time.Time
	newID func() string
}

func NewLogService(repo logs.Repository) *LogService {
	return &LogService{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// List returns every record in insertion order.
func (s *LogService) List(ctx context.Context) ([]*models.Log, error) {
	return s.repo.All(ctx)
}

// Create validates and stores a new record. Both fields are trimmed and
// must be non-empty afterwards.
func (s *LogService) Create(ctx context.Context, owner, logText string) (*models.Log, error) {
	owner, logText, err := normalize(owner, logText)
	if err != nil {
		return nil, err
	}

	now := s.now()
	log := &models.Log{
		ID:        s.newID(),
		Owner:     owner,
		LogText:   logText,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// Update replaces owner and text of an existing record. An unknown id is
// reported before any validation error.
func (s *LogService) Update(ctx context.Context, id, owner, logText string) (*models.Log, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, logText, err = normalize(owner, logText)
	if err != nil {
		return nil, err
	}

	updatedAt := s.now()
	if updatedAt.Before(existing.CreatedAt) {
		updatedAt = existing.CreatedAt
	}

	return s.repo.Update(ctx, &models.Log{
		ID:        id,
		Owner:     owner,
		LogText:   logText,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: updatedAt,
	})
}

// Delete removes a record and returns it.
func (s *LogService) Delete(ctx context.Context, id string) (*models.Log, error) {
	return s.repo.Delete(ctx, id)
}

// Seed inserts the initial record when the store is empty and reports
// whether it did.
func (s *LogService) Seed(ctx context.Context) (bool, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if len(all) > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, SeedOwner, SeedLogText); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	return true, nil
}

func normalize(owner, logText string) (string, string, error) {
	owner = strings.TrimSpace(owner)
	logText = strings.TrimSpace(logText)
	if owner == "" || logText == "" {
		return "", "", fmt.Errorf("%w: owner and logText are required", common.ErrorValidation)
	}
	return owner, logText, nil
}
