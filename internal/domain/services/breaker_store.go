package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"vigilant-link/internal/config"
	"vigilant-link/internal/domain/models"
	"vigilant-link/internal/metrics"
	"vigilant-link/pkg/logger"
)

// BreakerStore guards a ReportStore with a circuit breaker so a failing backend
// fails fast instead of tying up request goroutines.
type BreakerStore struct {
	next ReportStore
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerStore wraps next with a breaker configured from cfg
func NewBreakerStore(next ReportStore, cfg config.BreakerConfig, log *logger.Logger) *BreakerStore {
	log = log.WithComponent("store-breaker")
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "report-store",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &BreakerStore{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// State returns the current breaker state
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) Save(ctx context.Context, report *models.ScamReport) (uuid.UUID, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Save(ctx, report)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return res.(uuid.UUID), nil
}

func (b *BreakerStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.ScamReport, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.ListByUser(ctx, userID, limit)
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.ScamReport), nil
}

func (b *BreakerStore) RecentAggregate(ctx context.Context, limit int) (models.ReportStats, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.RecentAggregate(ctx, limit)
	})
	if err != nil {
		return models.ReportStats{}, err
	}
	return res.(models.ReportStats), nil
}

// Ping bypasses the breaker so readiness reflects the real backend
func (b *BreakerStore) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}
