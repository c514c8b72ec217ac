package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all PostgreSQL-backed repositories
type Repositories struct {
	Reports *ReportRepository
}

// NewRepositories creates all repositories over a shared pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Reports: NewReportRepository(pool),
	}
}
