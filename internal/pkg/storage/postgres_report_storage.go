package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/Vodeneev/statjoin/internal/pkg/config"
	"github.com/Vodeneev/statjoin/internal/reconcile"
)

// Ensure PostgresReportStorage implements ReportStorage
var _ ReportStorage = (*PostgresReportStorage)(nil)

// PostgresReportStorage stores reconciliation summaries in PostgreSQL.
type PostgresReportStorage struct {
	db *sql.DB
}

// NewPostgresReportStorage opens the database and creates the schema if needed.
func NewPostgresReportStorage(cfg *config.PostgresConfig) (*PostgresReportStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresReportStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL report storage initialized successfully")
	return s, nil
}

func (s *PostgresReportStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS reconcile_reports (
		id SERIAL PRIMARY KEY,
		run_id VARCHAR(64) NOT NULL UNIQUE,
		sport VARCHAR(100) NOT NULL,
		status VARCHAR(32) NOT NULL,
		picks INTEGER NOT NULL,
		stats INTEGER NOT NULL,
		matched INTEGER NOT NULL,
		unmatched_picks INTEGER NOT NULL,
		unmatched_stats INTEGER NOT NULL,
		unmatched_pick_names TEXT[] NOT NULL DEFAULT '{}',
		unmatched_stat_names TEXT[] NOT NULL DEFAULT '{}',
		stats_error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_reconcile_reports_created_at ON reconcile_reports(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_reconcile_reports_sport ON reconcile_reports(sport);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// StoreReport inserts one summary; a repeated run_id is ignored.
func (s *PostgresReportStorage) StoreReport(ctx context.Context, rec *ReportRecord) error {
	if rec == nil {
		return nil
	}
	query := `
	INSERT INTO reconcile_reports (
		run_id, sport, status, picks, stats, matched,
		unmatched_picks, unmatched_stats,
		unmatched_pick_names, unmatched_stat_names,
		stats_error, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (run_id) DO NOTHING
	`
	r := rec.Report
	_, err := s.db.ExecContext(ctx, query,
		rec.RunID, rec.Sport, string(r.Status), r.Picks, r.Stats, r.Matched,
		r.UnmatchedPicks, r.UnmatchedStats,
		pq.Array(nonNil(r.UnmatchedPickNames)), pq.Array(nonNil(r.UnmatchedStatNames)),
		rec.StatsError, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

// RecentReports returns the newest summaries first.
func (s *PostgresReportStorage) RecentReports(ctx context.Context, limit int) ([]ReportRecord, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query := `
	SELECT run_id, sport, status, picks, stats, matched,
		unmatched_picks, unmatched_stats,
		unmatched_pick_names, unmatched_stat_names,
		stats_error, created_at
	FROM reconcile_reports
	ORDER BY created_at DESC, id DESC
	LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var out []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		var status string
		var pickNames, statNames pq.StringArray
		if err := rows.Scan(
			&rec.RunID, &rec.Sport, &status,
			&rec.Report.Picks, &rec.Report.Stats, &rec.Report.Matched,
			&rec.Report.UnmatchedPicks, &rec.Report.UnmatchedStats,
			&pickNames, &statNames,
			&rec.StatsError, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		rec.Report.Status = reconcile.Status(status)
		rec.Report.UnmatchedPickNames = []string(pickNames)
		rec.Report.UnmatchedStatNames = []string(statNames)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}
	return out, nil
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}

// Close closes the database connection.
func (s *PostgresReportStorage) Close() error {
	return s.db.Close()
}
