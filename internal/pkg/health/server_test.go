package health

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Vodeneev/statjoin/internal/pkg/performance"
)

func TestNewMux_StandardRoutes(t *testing.T) {
	performance.GetTracker().Reset()
	performance.GetTracker().RecordRun(performance.RunTiming{Sport: "WNBA", Status: "complete", Success: true},
		performance.RunStats{Picks: 2, Matched: 2})

	srv := httptest.NewServer(NewMux(func(mux *http.ServeMux) {
		mux.HandleFunc("/extra", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "extra")
		})
	}))
	defer srv.Close()

	tests := []struct {
		path string
		want string
	}{
		{"/ping", "pong"},
		{"/health", "ok"},
		{"/extra", "extra"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), tt.want) {
				t.Errorf("GET %s = %d %q", tt.path, resp.StatusCode, body)
			}
		})
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var m performance.MetricsResponse
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if m.Overall.TotalRuns != 1 || m.Overall.MatchRate != 100 {
		t.Errorf("metrics = %+v", m.Overall)
	}
}

func TestRun_RequiresTimeout(t *testing.T) {
	if _, err := Run(context.Background(), ":0", "test", 0); err == nil {
		t.Error("Run() with zero timeout should fail")
	}
}

func TestRun_ReturnsBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	if _, err := Run(context.Background(), ln.Addr().String(), "test", time.Second); err == nil {
		t.Error("Run() on a busy address should fail")
	}
}

func TestRun_ServesUntilCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := Run(ctx, "127.0.0.1:0", "test", time.Second)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if srv == nil {
		t.Fatal("Run() returned nil server")
	}
}

func TestAddrFor(t *testing.T) {
	if got, err := AddrFor(8080); err != nil || got != ":8080" {
		t.Errorf("AddrFor(8080) = %q, %v", got, err)
	}
	if _, err := AddrFor(0); err == nil {
		t.Error("AddrFor(0) should fail")
	}
}
