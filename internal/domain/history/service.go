package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service answers history queries.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new history service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns history entries matching the filter.
func (s *Service) List(ctx context.Context, tenantID string, filter Filter) ([]Entry, error) {
	if err := validateDate(filter.From); err != nil {
		return nil, err
	}
	if err := validateDate(filter.To); err != nil {
		return nil, err
	}
	// YYYY-MM-DD compares correctly as text
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		return nil, ErrInvalidRange
	}

	entries, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return entries, nil
}

func validateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return nil
}
