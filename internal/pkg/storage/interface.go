package storage

import (
	"context"
	"time"

	"github.com/Vodeneev/statjoin/internal/reconcile"
)

// ReportRecord is one stored reconciliation summary.
type ReportRecord struct {
	RunID      string           `json:"run_id"`
	Sport      string           `json:"sport"`
	StatsError string           `json:"stats_error,omitempty"`
	Report     reconcile.Report `json:"report"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ReportStorage keeps reconciliation summaries for diagnostics.
// Picks and stats themselves are never stored.
type ReportStorage interface {
	// StoreReport saves one run summary
	StoreReport(ctx context.Context, rec *ReportRecord) error

	// RecentReports returns the newest summaries first, at most limit
	RecentReports(ctx context.Context, limit int) ([]ReportRecord, error)

	// Close closes the underlying connection
	Close() error
}
