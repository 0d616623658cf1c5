package performance

import (
	"log/slog"
	"sync"
	"time"
)

// Tracker tracks performance metrics for reconciliation runs
type Tracker struct {
	mu sync.RWMutex

	// Overall metrics
	TotalRuns    int
	FailedRuns   int
	TotalPicks   int
	TotalStats   int
	TotalMatched int
	SchemaErrors int
	CacheHits    int
	CacheMisses  int

	// Timing metrics
	TotalDuration      time.Duration
	OddsFetchDuration  time.Duration
	StatsFetchDuration time.Duration
	ReconcileDuration  time.Duration

	// Per-sport metrics
	Sports map[string]*SportMetrics

	// Recent runs, oldest first
	Runs []RunTiming
}

// SportMetrics aggregates runs for one sport
type SportMetrics struct {
	Runs           int
	Matched        int
	UnmatchedPicks int
	LastStatus     string
	LastRunAt      time.Time
}

// RunTiming tracks timing for a single run
type RunTiming struct {
	RunID      string
	Sport      string
	OddsFetch  time.Duration
	StatsFetch time.Duration
	Reconcile  time.Duration
	Total      time.Duration
	Status     string
	Success    bool
	Timestamp  time.Time
}

// RunStats are the counts reported with a run
type RunStats struct {
	Picks          int
	Stats          int
	Matched        int
	UnmatchedPicks int
	SchemaError    bool
}

const maxRuns = 500

var globalTracker = NewTracker()

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		Sports: make(map[string]*SportMetrics),
		Runs:   make([]RunTiming, 0, 64),
	}
}

// GetTracker returns the global performance tracker
func GetTracker() *Tracker {
	return globalTracker
}

// Reset resets all metrics
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalRuns = 0
	t.FailedRuns = 0
	t.TotalPicks = 0
	t.TotalStats = 0
	t.TotalMatched = 0
	t.SchemaErrors = 0
	t.CacheHits = 0
	t.CacheMisses = 0
	t.TotalDuration = 0
	t.OddsFetchDuration = 0
	t.StatsFetchDuration = 0
	t.ReconcileDuration = 0
	t.Sports = make(map[string]*SportMetrics)
	t.Runs = t.Runs[:0]
}

// RecordRun records a complete refresh run
func (t *Tracker) RecordRun(run RunTiming, counts RunStats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}

	t.TotalRuns++
	if !run.Success {
		t.FailedRuns++
	}
	if counts.SchemaError {
		t.SchemaErrors++
	}
	t.TotalPicks += counts.Picks
	t.TotalStats += counts.Stats
	t.TotalMatched += counts.Matched
	t.TotalDuration += run.Total
	t.OddsFetchDuration += run.OddsFetch
	t.StatsFetchDuration += run.StatsFetch
	t.ReconcileDuration += run.Reconcile

	sm, ok := t.Sports[run.Sport]
	if !ok {
		sm = &SportMetrics{}
		t.Sports[run.Sport] = sm
	}
	sm.Runs++
	sm.Matched += counts.Matched
	sm.UnmatchedPicks += counts.UnmatchedPicks
	sm.LastStatus = run.Status
	sm.LastRunAt = run.Timestamp

	t.Runs = append(t.Runs, run)
	if len(t.Runs) > maxRuns {
		t.Runs = append(t.Runs[:0], t.Runs[len(t.Runs)-maxRuns:]...)
	}
}

// RecordCache records a cache lookup
func (t *Tracker) RecordCache(hit bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if hit {
		t.CacheHits++
	} else {
		t.CacheMisses++
	}
}

// PrintSummary logs a performance summary
func (t *Tracker) PrintSummary() {
	m := t.GetMetrics()
	if m.Overall.TotalRuns == 0 {
		slog.Info("No performance data collected yet")
		return
	}
	slog.Info("Reconcile summary",
		"total_runs", m.Overall.TotalRuns,
		"failed_runs", m.Overall.FailedRuns,
		"match_rate", m.Overall.MatchRate,
		"schema_errors", m.Overall.SchemaErrors,
		"cache_hit_rate", m.Overall.CacheHitRate,
		"avg_total", m.Timing.AvgTotal,
		"avg_odds_fetch", m.Timing.AvgOddsFetch,
		"avg_stats_fetch", m.Timing.AvgStatsFetch,
		"avg_reconcile", m.Timing.AvgReconcile)
}

// MetricsResponse represents the JSON response structure for /metrics endpoint
type MetricsResponse struct {
	Overall struct {
		TotalRuns    int     `json:"total_runs"`
		FailedRuns   int     `json:"failed_runs"`
		TotalPicks   int     `json:"total_picks"`
		TotalStats   int     `json:"total_stats"`
		TotalMatched int     `json:"total_matched"`
		MatchRate    float64 `json:"match_rate"`
		SchemaErrors int     `json:"schema_errors"`
		CacheHits    int     `json:"cache_hits"`
		CacheMisses  int     `json:"cache_misses"`
		CacheHitRate float64 `json:"cache_hit_rate"`
	} `json:"overall"`

	Timing struct {
		AvgTotal      string `json:"avg_total"`
		AvgOddsFetch  string `json:"avg_odds_fetch"`
		AvgStatsFetch string `json:"avg_stats_fetch"`
		AvgReconcile  string `json:"avg_reconcile"`
	} `json:"timing"`

	Sports map[string]SportMetricsResponse `json:"sports"`

	LastRun *RunTimingResponse `json:"last_run,omitempty"`
}

type SportMetricsResponse struct {
	Runs           int       `json:"runs"`
	Matched        int       `json:"matched"`
	UnmatchedPicks int       `json:"unmatched_picks"`
	LastStatus     string    `json:"last_status"`
	LastRunAt      time.Time `json:"last_run_at"`
}

type RunTimingResponse struct {
	RunID     string    `json:"run_id"`
	Sport     string    `json:"sport"`
	Status    string    `json:"status"`
	Success   bool      `json:"success"`
	Total     string    `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// GetMetrics returns a snapshot of the metrics
func (t *Tracker) GetMetrics() MetricsResponse {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var m MetricsResponse
	m.Overall.TotalRuns = t.TotalRuns
	m.Overall.FailedRuns = t.FailedRuns
	m.Overall.TotalPicks = t.TotalPicks
	m.Overall.TotalStats = t.TotalStats
	m.Overall.TotalMatched = t.TotalMatched
	m.Overall.SchemaErrors = t.SchemaErrors
	m.Overall.CacheHits = t.CacheHits
	m.Overall.CacheMisses = t.CacheMisses
	if t.TotalPicks > 0 {
		m.Overall.MatchRate = float64(t.TotalMatched) / float64(t.TotalPicks) * 100
	}
	if lookups := t.CacheHits + t.CacheMisses; lookups > 0 {
		m.Overall.CacheHitRate = float64(t.CacheHits) / float64(lookups) * 100
	}

	if t.TotalRuns > 0 {
		n := time.Duration(t.TotalRuns)
		m.Timing.AvgTotal = (t.TotalDuration / n).String()
		m.Timing.AvgOddsFetch = (t.OddsFetchDuration / n).String()
		m.Timing.AvgStatsFetch = (t.StatsFetchDuration / n).String()
		m.Timing.AvgReconcile = (t.ReconcileDuration / n).String()
	}

	m.Sports = make(map[string]SportMetricsResponse, len(t.Sports))
	for name, sm := range t.Sports {
		m.Sports[name] = SportMetricsResponse{
			Runs:           sm.Runs,
			Matched:        sm.Matched,
			UnmatchedPicks: sm.UnmatchedPicks,
			LastStatus:     sm.LastStatus,
			LastRunAt:      sm.LastRunAt,
		}
	}

	if len(t.Runs) > 0 {
		last := t.Runs[len(t.Runs)-1]
		m.LastRun = &RunTimingResponse{
			RunID:     last.RunID,
			Sport:     last.Sport,
			Status:    last.Status,
			Success:   last.Success,
			Total:     last.Total.String(),
			Timestamp: last.Timestamp,
		}
	}
	return m
}
