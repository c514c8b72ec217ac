package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vigilant-link/internal/domain/services"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidReport     = "INVALID_REPORT"
	CodePersistenceFailed = "PERSISTENCE_FAILED"
	CodeUnavailable       = "UNAVAILABLE"
)

// ErrorBody is the error envelope returned by every endpoint
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: ErrorBody{Code: code, Message: message}})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// serviceError maps a service error to a status and body. A persistence
// failure also sets Retry-After.
func serviceError(w http.ResponseWriter, err error, retryAfter time.Duration) (int, ErrorBody) {
	switch {
	case errors.Is(err, services.ErrInvalidReport):
		return http.StatusBadRequest, ErrorBody{Code: CodeInvalidReport, Message: err.Error()}
	case errors.Is(err, services.ErrPersistenceFailed):
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		return http.StatusServiceUnavailable, ErrorBody{
			Code:      CodePersistenceFailed,
			Message:   "storage unavailable, retry later",
			Retryable: true,
		}
	default:
		return http.StatusInternalServerError, ErrorBody{Code: CodeUnavailable, Message: "internal error"}
	}
}
