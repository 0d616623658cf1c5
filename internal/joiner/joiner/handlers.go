package joiner

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Vodeneev/statjoin/internal/pkg/models"
	"github.com/Vodeneev/statjoin/internal/pkg/sources"
	"github.com/Vodeneev/statjoin/internal/pkg/stats"
)

// maxRequestBody caps POST /reconcile payloads.
const maxRequestBody = 8 << 20

// RegisterHTTP registers joiner endpoints onto mux.
func (s *Service) RegisterHTTP(mux *http.ServeMux) {
	mux.HandleFunc("/reconcile", s.handleReconcile)
	mux.HandleFunc("/reports", s.handleReports)
}

// ReconcileRequest is the POST /reconcile body.
type ReconcileRequest struct {
	Picks      []models.PickRecord `json:"picks"`
	Stats      stats.Table         `json:"stats"`
	TeamColumn string              `json:"team_column"`
	ExactOnly  bool                `json:"exact_only"`
}

func (s *Service) handleReconcile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleRefresh(w, r)
	case http.MethodPost:
		s.handleStatelessReconcile(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed, use GET or POST"})
	}
}

// handleRefresh runs a live refresh.
// GET /reconcile?sport=WNBA&search=aces&min_odds=-200&max_odds=200
func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sport := strings.TrimSpace(q.Get("sport"))
	if sport == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": `missing query parameter "sport"`})
		return
	}

	filter := sources.Filter{Search: q.Get("search")}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"min_odds", &filter.MinOdds}, {"max_odds", &filter.MaxOdds}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + p.name, "details": err.Error()})
			return
		}
		*p.dst = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	o, err := s.Refresh(ctx, sport, filter)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ErrUnknownSport) {
			status = http.StatusNotFound
		}
		slog.Error("Refresh failed in handleRefresh", "sport", sport, "error", err)
		writeJSON(w, status, map[string]string{"error": "refresh failed", "details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// handleStatelessReconcile joins the posted picks and stats table.
// A missing team column answers 422 with the no-stats outcome.
func (s *Service) handleStatelessReconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body", "details": err.Error()})
		return
	}

	o, err := s.Reconcile(req.Picks, req.Stats, req.TeamColumn, req.ExactOnly)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid picks", "details": err.Error()})
		return
	}
	status := http.StatusOK
	if errors.Is(o.StatsErr, stats.ErrSchema) {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, o)
}

// handleReports returns stored run summaries.
// GET /reports?limit=20
func (s *Service) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed, use GET"})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > 100 {
				n = 100
			}
			limit = n
		}
	}

	reports, err := s.RecentReports(r.Context(), limit)
	if errors.Is(err, errNoStorage) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		slog.Error("Failed to load reports", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load reports", "details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"meta": map[string]interface{}{
			"count": len(reports),
			"limit": limit,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
