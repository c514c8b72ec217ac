package services

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// ReportFilter remembers fingerprints of reported scam messages. Lookups can
// return false positives at the configured rate but never false negatives.
type ReportFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewReportFilter sizes the filter for capacity entries at fpRate
func NewReportFilter(capacity uint, fpRate float64) *ReportFilter {
	if capacity == 0 {
		capacity = 100000
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = 0.01
	}
	return &ReportFilter{filter: bloom.NewWithEstimates(capacity, fpRate)}
}

// fingerprint folds case and whitespace so trivially re-sent variants collide
func fingerprint(message string) []byte {
	return []byte(strings.Join(strings.Fields(strings.ToLower(message)), " "))
}

// Add records message
func (f *ReportFilter) Add(message string) {
	fp := fingerprint(message)
	if len(fp) == 0 {
		return
	}
	f.mu.Lock()
	f.filter.Add(fp)
	f.mu.Unlock()
}

// Seen reports whether message was probably added before
func (f *ReportFilter) Seen(message string) bool {
	fp := fingerprint(message)
	if len(fp) == 0 {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.Test(fp)
}
