package storage

import (
	"context"
	"sync"
)

var _ ReportStorage = (*MemoryReportStorage)(nil)

// MemoryReportStorage keeps the most recent summaries in process memory.
type MemoryReportStorage struct {
	mu      sync.RWMutex
	records []ReportRecord
	max     int
}

// NewMemoryReportStorage keeps up to max records (100 when max <= 0).
func NewMemoryReportStorage(max int) *MemoryReportStorage {
	if max <= 0 {
		max = 100
	}
	return &MemoryReportStorage{max: max}
}

func (s *MemoryReportStorage) StoreReport(_ context.Context, rec *ReportRecord) error {
	if rec == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, copyRecord(*rec))
	if len(s.records) > s.max {
		s.records = s.records[len(s.records)-s.max:]
	}
	return nil
}

func (s *MemoryReportStorage) RecentReports(_ context.Context, limit int) ([]ReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]ReportRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, copyRecord(s.records[i]))
	}
	return out, nil
}

func (s *MemoryReportStorage) Close() error {
	return nil
}

func copyRecord(r ReportRecord) ReportRecord {
	r.Report.UnmatchedPickNames = append([]string(nil), r.Report.UnmatchedPickNames...)
	r.Report.UnmatchedStatNames = append([]string(nil), r.Report.UnmatchedStatNames...)
	return r
}
