package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Vodeneev/statjoin/internal/pkg/health/handlers"
)

// RegisterFunc adds service routes to the mux.
type RegisterFunc func(mux *http.ServeMux)

// NewMux builds a mux with the standard /ping, /health and /metrics routes
// followed by the service routes.
func NewMux(register ...RegisterFunc) *http.ServeMux {
	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/ping", handlers.HandlePing)
	mux.HandleFunc("/health", handlers.HandleHealth)

	// Metrics endpoint
	mux.HandleFunc("/metrics", handlers.HandleMetrics)

	for _, r := range register {
		if r != nil {
			r(mux)
		}
	}
	return mux
}

// Run binds addr, serves in the background and shuts down when ctx is done.
// A bind failure is returned to the caller.
func Run(ctx context.Context, addr string, service string, readHeaderTimeout time.Duration, register ...RegisterFunc) (*http.Server, error) {
	if readHeaderTimeout <= 0 {
		return nil, fmt.Errorf("read_header_timeout must be specified in config")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(register...),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("HTTP server listening", "service", service, "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "service", service, "error", err)
		}
	}()

	return srv, nil
}

func AddrFor(port int) (string, error) {
	if port <= 0 {
		return "", fmt.Errorf("port must be greater than 0")
	}
	return fmt.Sprintf(":%d", port), nil
}
