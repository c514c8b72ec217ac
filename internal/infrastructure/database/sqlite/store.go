// Package sqlite stores scam reports in a local SQLite database. It backs the
// CLI and single-node deployments that do not run PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"vigilant-link/internal/domain/models"
)

// Store implements the report store on SQLite
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at path and applies migrations.
// Use ":memory:" for an ephemeral database.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: writes are serialized and ":memory:" stays a single database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Save(ctx context.Context, report *models.ScamReport) (uuid.UUID, error) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.ReportedAt.IsZero() {
		report.ReportedAt = time.Now().UTC()
	}

	patterns, err := json.Marshal(nonNil(report.DetectedPatterns))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode detected patterns: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scam_reports (id, message, classification, risk_score, detected_patterns, user_id, reported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ID.String(), report.Message, report.Classification.String(), report.RiskScore,
		string(patterns), nullString(report.UserID), report.ReportedAt.UnixMilli(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert report: %w", err)
	}
	return report.ID, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]models.ScamReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, classification, risk_score, detected_patterns, user_id, reported_at
		FROM scam_reports
		WHERE user_id = ?
		ORDER BY reported_at DESC, rowid DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.ScamReport{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *Store) RecentAggregate(ctx context.Context, limit int) (models.ReportStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT classification, COUNT(*)
		FROM (
			SELECT classification FROM scam_reports
			ORDER BY reported_at DESC, rowid DESC
			LIMIT ?
		)
		GROUP BY classification`, limit)
	if err != nil {
		return models.ReportStats{}, fmt.Errorf("failed to aggregate reports: %w", err)
	}
	defer rows.Close()

	var stats models.ReportStats
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return models.ReportStats{}, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		c, err := models.ParseClassification(name)
		if err != nil {
			return models.ReportStats{}, err
		}
		stats.AddN(c, count)
	}
	return stats, rows.Err()
}

func scanReport(rows *sql.Rows) (models.ScamReport, error) {
	var (
		r          models.ScamReport
		id, class  string
		patterns   string
		userID     sql.NullString
		reportedAt int64
	)
	if err := rows.Scan(&id, &r.Message, &class, &r.RiskScore, &patterns, &userID, &reportedAt); err != nil {
		return r, fmt.Errorf("failed to scan report: %w", err)
	}

	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return r, fmt.Errorf("invalid report id %q: %w", id, err)
	}
	if r.Classification, err = models.ParseClassification(class); err != nil {
		return r, err
	}
	if err := json.Unmarshal([]byte(patterns), &r.DetectedPatterns); err != nil {
		return r, fmt.Errorf("failed to decode detected patterns: %w", err)
	}
	r.DetectedPatterns = nonNil(r.DetectedPatterns)
	r.UserID = userID.String
	r.ReportedAt = time.UnixMilli(reportedAt).UTC()
	return r, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
