package handlers

import (
	"context"
	"time"

	"vigilant-link/internal/domain/services"
	"vigilant-link/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Scan     *ScanHandler
	Reports  *ReportsHandler
	Stats    *StatsHandler
	Patterns *PatternsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Service *services.ReportService
	// Ready reports whether backing infrastructure is reachable. Nil means always ready.
	Ready   func(ctx context.Context) error
	Version string
	// RetryAfter is advertised when a save fails on storage
	RetryAfter time.Duration
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	if deps.RetryAfter <= 0 {
		deps.RetryAfter = 5 * time.Second
	}
	return &Handlers{
		Health:   NewHealthHandler(deps.Ready, deps.Version, deps.Logger),
		Scan:     NewScanHandler(deps.Service, deps.RetryAfter, deps.Logger),
		Reports:  NewReportsHandler(deps.Service, deps.RetryAfter, deps.Logger),
		Stats:    NewStatsHandler(deps.Service, deps.RetryAfter, deps.Logger),
		Patterns: NewPatternsHandler(deps.Service.Catalogue()),
	}
}
