package handlers

import (
	"net/http"
	"time"

	"vigilant-link/internal/domain/services"
	"vigilant-link/pkg/logger"
)

// StatsHandler handles aggregate statistics
type StatsHandler struct {
	service    *services.ReportService
	retryAfter time.Duration
	logger     *logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service *services.ReportService, retryAfter time.Duration, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		service:    service,
		retryAfter: retryAfter,
		logger:     log.WithComponent("stats-handler"),
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to aggregate reports")
		status, body := serviceError(w, err, h.retryAfter)
		writeJSON(w, status, errorResponse{Error: body})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
