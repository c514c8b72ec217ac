package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigilant-link/internal/config"
	"vigilant-link/internal/domain/models"
	"vigilant-link/internal/infrastructure/database"
	"vigilant-link/internal/infrastructure/database/repository"
	"vigilant-link/pkg/logger"
)

// newTestRepository connects to PostgreSQL at VIGILANT_TEST_DATABASE_HOST with the
// default credentials, skipping when it is unset.
func newTestRepository(t *testing.T) *repository.ReportRepository {
	t.Helper()
	if os.Getenv("VIGILANT_TEST_DATABASE_HOST") == "" {
		t.Skip("VIGILANT_TEST_DATABASE_HOST not set")
	}

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database.Host = os.Getenv("VIGILANT_TEST_DATABASE_HOST")
	if pw := os.Getenv("VIGILANT_TEST_DATABASE_PASSWORD"); pw != "" {
		cfg.Database.Password = pw
	}

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	return repository.NewRepositories(db.Pool()).Reports
}

func TestReportRepository_SameTimestampKeepsInsertOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	// Newer than anything already stored so the recent window sees only these rows
	at := time.Now().Add(100 * 365 * 24 * time.Hour).UTC().Truncate(time.Microsecond)
	user := "user-" + uuid.NewString()

	classes := []models.Classification{
		models.ClassificationHighRisk,
		models.ClassificationWarning,
		models.ClassificationSafe,
	}
	var ids []uuid.UUID
	for _, c := range classes {
		id, err := repo.Save(ctx, &models.ScamReport{
			Message:          "same instant",
			Classification:   c,
			DetectedPatterns: []string{},
			UserID:           user,
			ReportedAt:       at,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	history, err := repo.ListByUser(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{history[0].ID, history[1].ID, history[2].ID})

	stats, err := repo.RecentAggregate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStats{Total: 1, Safe: 1}, stats)
}
