package handlers

import (
	"fmt"
	"net/http"

	"github.com/Vodeneev/statjoin/internal/pkg/performance"
)

// HandlePing handles /ping endpoint
func HandlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong\n"))
}

// HandleHealth handles /health endpoint, reporting the last run when there is one
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	m := performance.GetTracker().GetMetrics()
	if m.LastRun == nil {
		_, _ = w.Write([]byte("ok\n"))
		return
	}
	_, _ = fmt.Fprintf(w, "ok\nlast_run: %s %s %s\n", m.LastRun.Sport, m.LastRun.Status, m.LastRun.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
}
