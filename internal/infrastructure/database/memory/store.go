// Package memory provides a process-local report store for development and tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"vigilant-link/internal/domain/models"
)

// ErrClosed is returned after Close
var ErrClosed = errors.New("memory store closed")

// Store keeps reports in insertion order
type Store struct {
	mu      sync.RWMutex
	reports []models.ScamReport
	closed  bool
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Save(_ context.Context, report *models.ScamReport) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return uuid.Nil, ErrClosed
	}
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	r := *report
	r.DetectedPatterns = append([]string{}, report.DetectedPatterns...)
	s.reports = append(s.reports, r)
	return r.ID, nil
}

// ListByUser walks backwards from the newest insert
func (s *Store) ListByUser(_ context.Context, userID string, limit int) ([]models.ScamReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := []models.ScamReport{}
	for i := len(s.reports) - 1; i >= 0 && len(out) < limit; i-- {
		if s.reports[i].UserID == userID {
			r := s.reports[i]
			r.DetectedPatterns = append([]string{}, r.DetectedPatterns...)
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) RecentAggregate(_ context.Context, limit int) (models.ReportStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return models.ReportStats{}, ErrClosed
	}

	var stats models.ReportStats
	for i := len(s.reports) - 1; i >= 0 && stats.Total < limit; i-- {
		stats.Add(s.reports[i].Classification)
	}
	return stats, nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored reports
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
