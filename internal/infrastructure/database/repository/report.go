package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"vigilant-link/internal/domain/models"
)

// ReportRepository handles scam report persistence
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Save inserts a report. The id and reported_at supplied by the caller are kept.
func (r *ReportRepository) Save(ctx context.Context, report *models.ScamReport) (uuid.UUID, error) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.ReportedAt.IsZero() {
		report.ReportedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO scam_reports (
			id, message, classification, risk_score, detected_patterns, user_id, reported_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		report.ID, report.Message, report.Classification.String(), report.RiskScore,
		nonNilStrings(report.DetectedPatterns), textOrNull(report.UserID), report.ReportedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create report: %w", err)
	}

	return id, nil
}

// ListByUser retrieves a user's reports, newest first
func (r *ReportRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.ScamReport, error) {
	query := `
		SELECT id, message, classification, risk_score, detected_patterns, user_id, reported_at
		FROM scam_reports
		WHERE user_id = $1
		ORDER BY reported_at DESC, seq DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.ScamReport{}
	for rows.Next() {
		rep, err := r.scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}

	return reports, rows.Err()
}

// RecentAggregate counts the most recent limit reports by classification
func (r *ReportRepository) RecentAggregate(ctx context.Context, limit int) (models.ReportStats, error) {
	query := `
		SELECT classification, COUNT(*)
		FROM (
			SELECT classification
			FROM scam_reports
			ORDER BY reported_at DESC, seq DESC
			LIMIT $1
		) recent
		GROUP BY classification`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return models.ReportStats{}, fmt.Errorf("failed to aggregate reports: %w", err)
	}
	defer rows.Close()

	var stats models.ReportStats
	for rows.Next() {
		var (
			name  string
			count int64
		)
		if err := rows.Scan(&name, &count); err != nil {
			return models.ReportStats{}, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		c, err := models.ParseClassification(name)
		if err != nil {
			return models.ReportStats{}, err
		}
		stats.AddN(c, int(count))
	}

	return stats, rows.Err()
}

// Ping checks the pool
func (r *ReportRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *ReportRepository) scanReport(row pgx.Row) (*models.ScamReport, error) {
	var (
		rep    models.ScamReport
		class  string
		userID pgtype.Text
	)

	err := row.Scan(
		&rep.ID, &rep.Message, &class, &rep.RiskScore,
		&rep.DetectedPatterns, &userID, &rep.ReportedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}

	if rep.Classification, err = models.ParseClassification(class); err != nil {
		return nil, err
	}
	rep.DetectedPatterns = nonNilStrings(rep.DetectedPatterns)
	rep.UserID = nullTextToString(userID)
	rep.ReportedAt = rep.ReportedAt.UTC()

	return &rep, nil
}
