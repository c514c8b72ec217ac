package handlers

import (
	"net/http"
	"strconv"
	"time"

	apimiddleware "vigilant-link/internal/api/middleware"
	"vigilant-link/internal/domain/models"
	"vigilant-link/internal/domain/services"
	"vigilant-link/pkg/logger"
)

// ReportsHandler handles report persistence and history endpoints
type ReportsHandler struct {
	service    *services.ReportService
	retryAfter time.Duration
	logger     *logger.Logger
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(service *services.ReportService, retryAfter time.Duration, log *logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		service:    service,
		retryAfter: retryAfter,
		logger:     log.WithComponent("reports-handler"),
	}
}

// CreateReportRequest saves a verdict the client already holds
type CreateReportRequest struct {
	Message          string                `json:"message"`
	Classification   models.Classification `json:"classification"`
	RiskScore        int                   `json:"riskScore"`
	DetectedPatterns []string              `json:"detectedPatterns"`
}

// HistoryResponse lists the caller's reports, newest first
type HistoryResponse struct {
	Reports []models.ScamReport `json:"reports"`
	Count   int                 `json:"count"`
}

// Create handles POST /api/v1/reports
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	report, err := h.service.Save(r.Context(), services.SaveReportInput{
		Message: req.Message,
		Verdict: models.Verdict{
			Classification:   req.Classification,
			RiskScore:        req.RiskScore,
			DetectedPatterns: req.DetectedPatterns,
		},
		UserID: apimiddleware.GetUserID(r.Context()),
	})
	if err != nil {
		status, body := serviceError(w, err, h.retryAfter)
		writeJSON(w, status, errorResponse{Error: body})
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

// Mine handles GET /api/v1/reports/mine?limit=
func (h *ReportsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	reports, err := h.service.History(r.Context(), apimiddleware.GetUserID(r.Context()), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load history")
		status, body := serviceError(w, err, h.retryAfter)
		writeJSON(w, status, errorResponse{Error: body})
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{Reports: reports, Count: len(reports)})
}
