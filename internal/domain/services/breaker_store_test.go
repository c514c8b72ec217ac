package services

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigilant-link/internal/config"
	"vigilant-link/internal/domain/models"
	"vigilant-link/internal/infrastructure/database/memory"
	"vigilant-link/pkg/logger"
)

func TestBreakerStore_PassesThrough(t *testing.T) {
	b := NewBreakerStore(memory.NewStore(), config.BreakerConfig{}, logger.NewNop())
	ctx := context.Background()

	r := models.NewScamReport("hi", models.Verdict{Classification: models.ClassificationWarning, RiskScore: 40}, "u")
	id, err := b.Save(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, r.ID, id)

	list, err := b.ListByUser(ctx, "u", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	stats, err := b.RecentAggregate(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Warning)

	assert.NoError(t, b.Ping(ctx))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerStore_TripsAndFailsFast(t *testing.T) {
	inner := &stubStore{err: errStoreDown}
	b := NewBreakerStore(inner, config.BreakerConfig{
		ConsecutiveFailures: 3,
		Timeout:             time.Hour,
	}, logger.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := b.Save(ctx, models.NewScamReport("x", models.Verdict{}, ""))
		assert.ErrorIs(t, err, errStoreDown)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.ListByUser(ctx, "u", 1)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls, "open breaker does not reach the store")

	// Ping bypasses the breaker
	assert.ErrorIs(t, b.Ping(ctx), errStoreDown)
	assert.Equal(t, 4, inner.calls)
}

func TestBreakerStore_OpenIsPersistenceFailure(t *testing.T) {
	b := NewBreakerStore(&stubStore{err: errStoreDown}, config.BreakerConfig{ConsecutiveFailures: 1, Timeout: time.Hour}, logger.NewNop())
	svc := newTestService(b)
	ctx := context.Background()

	in := SaveReportInput{Message: lotteryMsg, Verdict: svc.Analyze(lotteryMsg)}
	_, err := svc.Save(ctx, in)
	require.ErrorIs(t, err, ErrPersistenceFailed)

	_, err = svc.Save(ctx, in)
	assert.ErrorIs(t, err, ErrPersistenceFailed)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestBreakerStore_Recovers(t *testing.T) {
	inner := &stubStore{err: errStoreDown}
	b := NewBreakerStore(inner, config.BreakerConfig{
		ConsecutiveFailures: 1,
		Timeout:             10 * time.Millisecond,
		MaxRequests:         1,
	}, logger.NewNop())
	ctx := context.Background()

	_, err := b.RecentAggregate(ctx, 10)
	require.Error(t, err)
	require.Equal(t, gobreaker.StateOpen, b.State())

	inner.mu.Lock()
	inner.err = nil
	inner.mu.Unlock()

	require.Eventually(t, func() bool {
		return b.State() == gobreaker.StateHalfOpen
	}, time.Second, 5*time.Millisecond)

	_, err = b.RecentAggregate(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
