package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"vigilant-link/internal/config"
	"vigilant-link/internal/detection"
	"vigilant-link/internal/domain/models"
	"vigilant-link/internal/metrics"
	"vigilant-link/pkg/logger"
)

// ReportStore persists scam reports. Implementations must be safe for concurrent use;
// reads may observe a snapshot that lags concurrent writes.
type ReportStore interface {
	Save(ctx context.Context, report *models.ScamReport) (uuid.UUID, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ScamReport, error)
	RecentAggregate(ctx context.Context, limit int) (models.ReportStats, error)
	Ping(ctx context.Context) error
}

// StatsCache caches aggregate stats between saves
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ReportPublisher announces saved reports to other consumers
type ReportPublisher interface {
	PublishReport(ctx context.Context, report *models.ScamReport) error
}

// KeyReportStats is the cache key for aggregate report stats
const KeyReportStats = "cache:stats:reports"

// MaxBatchSize bounds AnalyzeBatch
const MaxBatchSize = 100

// SaveReportInput is a verdict the caller has decided to persist
type SaveReportInput struct {
	Message string
	Verdict models.Verdict
	UserID  string
}

// ReportService sequences classification, persistence and aggregate queries.
// Classification never depends on the store; a store failure after a
// successful classification surfaces as ErrPersistenceFailed.
type ReportService struct {
	classifier *detection.Classifier
	store      ReportStore
	cache      StatsCache
	publisher  ReportPublisher
	filter     *ReportFilter
	cfg        config.ReportsConfig
	logger     *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(classifier *detection.Classifier, store ReportStore, cfg config.ReportsConfig, log *logger.Logger) *ReportService {
	return &ReportService{
		classifier: classifier,
		store:      store,
		filter:     NewReportFilter(cfg.FilterCapacity, cfg.FilterFPRate),
		cfg:        cfg,
		logger:     log.WithComponent("report-service"),
	}
}

// SetCache enables stats caching
func (s *ReportService) SetCache(c StatsCache) {
	s.cache = c
}

// SetPublisher enables report events
func (s *ReportService) SetPublisher(p ReportPublisher) {
	s.publisher = p
}

// Catalogue returns the rule set used for classification
func (s *ReportService) Catalogue() *detection.Catalogue {
	return s.classifier.Catalogue()
}

// Analyze classifies a single message
func (s *ReportService) Analyze(message string) models.Verdict {
	v := s.classifier.Classify(message)
	metrics.ClassificationsTotal.WithLabelValues(v.Classification.String()).Inc()
	metrics.RiskScore.Observe(float64(v.RiskScore))
	return v
}

// AnalyzeBatch classifies messages in order. Callers enforce MaxBatchSize.
func (s *ReportService) AnalyzeBatch(messages []string) []models.Verdict {
	out := make([]models.Verdict, len(messages))
	for i, m := range messages {
		out[i] = s.Analyze(m)
	}
	return out
}

// PreviouslyReported reports whether an equivalent message was saved as a scam before
func (s *ReportService) PreviouslyReported(message string) bool {
	return s.filter.Seen(message)
}

func validateReport(in SaveReportInput) error {
	if strings.TrimSpace(in.Message) == "" {
		return invalidReport("message is required")
	}
	if !in.Verdict.Classification.Valid() {
		return invalidReport("unknown classification %d", int(in.Verdict.Classification))
	}
	if in.Verdict.RiskScore < 0 || in.Verdict.RiskScore > 100 {
		return invalidReport("risk score %d outside [0, 100]", in.Verdict.RiskScore)
	}
	return nil
}

// Save persists a classified message. The report id and timestamp are assigned here.
func (s *ReportService) Save(ctx context.Context, in SaveReportInput) (*models.ScamReport, error) {
	if err := validateReport(in); err != nil {
		return nil, err
	}

	report := models.NewScamReport(in.Message, in.Verdict, in.UserID)
	id, err := s.store.Save(ctx, report)
	if err != nil {
		metrics.PersistenceFailuresTotal.Inc()
		s.logger.Error().Err(err).Str("report_id", report.ID.String()).Msg("failed to save report")
		return nil, &PersistenceError{Op: "save report", Err: err}
	}
	if id != uuid.Nil {
		report.ID = id
	}

	metrics.ReportsSavedTotal.WithLabelValues(report.Classification.String()).Inc()
	s.logger.WithUserID(report.UserID).Info().
		Str("report_id", report.ID.String()).
		Str("classification", report.Classification.String()).
		Int("risk_score", report.RiskScore).
		Msg("report saved")

	if report.Classification != models.ClassificationSafe {
		s.filter.Add(report.Message)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, KeyReportStats); err != nil {
			s.logger.Debug().Err(err).Msg("failed to invalidate stats cache")
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReport(ctx, report); err != nil {
			s.logger.Warn().Err(err).Str("report_id", report.ID.String()).Msg("failed to publish report event")
		}
	}

	return report, nil
}

// History returns the user's most recent reports. Anonymous callers have none.
func (s *ReportService) History(ctx context.Context, userID string, limit int) ([]models.ScamReport, error) {
	if userID == "" {
		return []models.ScamReport{}, nil
	}
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	if s.cfg.MaxHistoryLimit > 0 && limit > s.cfg.MaxHistoryLimit {
		limit = s.cfg.MaxHistoryLimit
	}

	reports, err := s.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list reports", Err: err}
	}
	if reports == nil {
		reports = []models.ScamReport{}
	}
	return reports, nil
}

// Stats aggregates the most recent reports by classification
func (s *ReportService) Stats(ctx context.Context) (models.ReportStats, error) {
	var stats models.ReportStats
	if s.cache != nil {
		if err := s.cache.GetJSON(ctx, KeyReportStats, &stats); err == nil {
			metrics.StatsCacheLookups.WithLabelValues("hit").Inc()
			return stats, nil
		}
		metrics.StatsCacheLookups.WithLabelValues("miss").Inc()
	}

	stats, err := s.store.RecentAggregate(ctx, s.cfg.StatsWindow)
	if err != nil {
		return models.ReportStats{}, &PersistenceError{Op: "aggregate reports", Err: err}
	}

	if s.cache != nil && s.cfg.StatsTTL > 0 {
		if err := s.cache.SetJSON(ctx, KeyReportStats, stats, s.cfg.StatsTTL); err != nil {
			s.logger.Debug().Err(err).Msg("failed to cache stats")
		}
	}

	return stats, nil
}

// Ready checks the backing store
func (s *ReportService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
