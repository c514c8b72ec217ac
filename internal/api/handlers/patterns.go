package handlers

import (
	"net/http"

	"vigilant-link/internal/detection"
)

// PatternsHandler exposes the rule catalogue for client-side pre-screening
type PatternsHandler struct {
	body PatternsResponse
}

// PatternsResponse is the exported catalogue
type PatternsResponse struct {
	Rules    []detection.RuleInfo `json:"rules"`
	Keywords detection.KeywordSet `json:"keywords"`
	Weights  detection.Weights    `json:"weights"`
}

// NewPatternsHandler snapshots the catalogue once; it never changes at runtime
func NewPatternsHandler(c *detection.Catalogue) *PatternsHandler {
	return &PatternsHandler{body: PatternsResponse{
		Rules:    c.Export(),
		Keywords: c.Keywords(),
		Weights:  c.Weights(),
	}}
}

// List handles GET /api/v1/patterns
func (h *PatternsHandler) List(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, h.body)
}
