package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/timekeep/internal/domain/history"
)

// Service builds reports from a user's history.
type Service struct {
	history history.Repository
	logger  *slog.Logger
	now     func() time.Time
	loc     *time.Location
}

// NewService creates a new report service.
func NewService(hist history.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{history: hist, logger: logger, now: time.Now, loc: time.Local}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetLocation sets the zone the window is computed in.
func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// Location returns the zone windows are computed in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Build aggregates the history rows inside the window r. An empty range
// selects the current week.
func (s *Service) Build(ctx context.Context, tenantID string, r Range) (*Report, error) {
	r, err := ParseRange(string(r))
	if err != nil {
		return nil, err
	}
	now := s.now()
	period := r.Bounds(now, s.loc)

	rows, err := s.history.List(ctx, tenantID, history.Filter{From: period.Start, To: period.End})
	if err != nil {
		return nil, fmt.Errorf("loading history for %s: %w", r, err)
	}
	s.logger.Debug("building report", "range", r, "start", period.Start, "end", period.End, "rows", len(rows))

	rep := Aggregate(rows)
	rep.Range = r
	rep.Period = period
	rep.Generated = now
	return &rep, nil
}
