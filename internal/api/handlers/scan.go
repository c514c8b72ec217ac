package handlers

import (
	"fmt"
	"net/http"
	"time"

	apimiddleware "vigilant-link/internal/api/middleware"
	"vigilant-link/internal/domain/models"
	"vigilant-link/internal/domain/services"
	"vigilant-link/pkg/logger"
)

// ScanHandler handles message classification endpoints
type ScanHandler struct {
	service    *services.ReportService
	retryAfter time.Duration
	logger     *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(service *services.ReportService, retryAfter time.Duration, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		service:    service,
		retryAfter: retryAfter,
		logger:     log.WithComponent("scan-handler"),
	}
}

// ScanRequest is the request body for a single scan
type ScanRequest struct {
	Message string `json:"message"`
	Save    bool   `json:"save,omitempty"`
}

// ScanResponse carries the verdict even when saving failed
type ScanResponse struct {
	Verdict            models.Verdict     `json:"verdict"`
	PreviouslyReported bool               `json:"previouslyReported"`
	Report             *models.ScamReport `json:"report,omitempty"`
	Error              *ErrorBody         `json:"error,omitempty"`
}

// BatchScanRequest is the request body for batch scans
type BatchScanRequest struct {
	Messages []string `json:"messages"`
}

// BatchScanResponse lists verdicts in request order
type BatchScanResponse struct {
	Verdicts []models.Verdict `json:"verdicts"`
	Count    int              `json:"count"`
}

// Scan handles POST /api/v1/scan - classifies a message and optionally saves it
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	resp := ScanResponse{
		Verdict:            h.service.Analyze(req.Message),
		PreviouslyReported: h.service.PreviouslyReported(req.Message),
	}

	if !req.Save {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	report, err := h.service.Save(r.Context(), services.SaveReportInput{
		Message: req.Message,
		Verdict: resp.Verdict,
		UserID:  apimiddleware.GetUserID(r.Context()),
	})
	if err != nil {
		status, body := serviceError(w, err, h.retryAfter)
		resp.Error = &body
		writeJSON(w, status, resp)
		return
	}

	resp.Report = report
	writeJSON(w, http.StatusOK, resp)
}

// ScanBatch handles POST /api/v1/scan/batch - classifies up to MaxBatchSize messages
func (h *ScanHandler) ScanBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchScanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "at least one message is required")
		return
	}
	if len(req.Messages) > services.MaxBatchSize {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest,
			fmt.Sprintf("maximum %d messages per batch", services.MaxBatchSize))
		return
	}

	verdicts := h.service.AnalyzeBatch(req.Messages)

	h.logger.Debug().Int("count", len(verdicts)).Msg("batch scanned")

	writeJSON(w, http.StatusOK, BatchScanResponse{Verdicts: verdicts, Count: len(verdicts)})
}
