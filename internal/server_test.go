package internal

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewService(t *testing.T) {
	tests := []struct {
		name             string
		cfg              ServiceConfig
		wantAddr         string
		wantReadTimeout  time.Duration
		wantWriteTimeout time.Duration
		wantIdleTimeout  time.Duration
	}{
		{
			name: "applies default timeouts when none provided",
			cfg: ServiceConfig{
				Addr:   ":8080",
				Logger: testLogger(),
			},
			wantAddr:         ":8080",
			wantReadTimeout:  15 * time.Second,
			wantWriteTimeout: 15 * time.Second,
			wantIdleTimeout:  60 * time.Second,
		},
		{
			name: "uses custom timeouts when provided",
			cfg: ServiceConfig{
				Addr:         ":9090",
				Logger:       testLogger(),
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  30 * time.Second,
			},
			wantAddr:         ":9090",
			wantReadTimeout:  5 * time.Second,
			wantWriteTimeout: 10 * time.Second,
			wantIdleTimeout:  30 * time.Second,
		},
		{
			name: "partial custom timeouts uses defaults for the rest",
			cfg: ServiceConfig{
				Addr:        ":8080",
				Logger:      testLogger(),
				ReadTimeout: 3 * time.Second,
			},
			wantAddr:         ":8080",
			wantReadTimeout:  3 * time.Second,
			wantWriteTimeout: 15 * time.Second,
			wantIdleTimeout:  60 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.cfg)

			if svc.HTTPServer.Addr != tt.wantAddr {
				t.Errorf("Addr = %s, want %s", svc.HTTPServer.Addr, tt.wantAddr)
			}
			if svc.HTTPServer.ReadTimeout != tt.wantReadTimeout {
				t.Errorf("ReadTimeout = %s, want %s", svc.HTTPServer.ReadTimeout, tt.wantReadTimeout)
			}
			if svc.HTTPServer.WriteTimeout != tt.wantWriteTimeout {
				t.Errorf("WriteTimeout = %s, want %s", svc.HTTPServer.WriteTimeout, tt.wantWriteTimeout)
			}
			if svc.HTTPServer.IdleTimeout != tt.wantIdleTimeout {
				t.Errorf("IdleTimeout = %s, want %s", svc.HTTPServer.IdleTimeout, tt.wantIdleTimeout)
			}
		})
	}
}

func TestNewService_RegistersRoutes(t *testing.T) {
	svc := NewService(ServiceConfig{
		Addr:   ":8080",
		Logger: testLogger(),
		Routes: func(r chi.Router) {
			r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("pong"))
			})
		},
	})

	req := httptest.NewRequest("GET", "/ping", nil)
	rr := httptest.NewRecorder()
	svc.Router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "pong" {
		t.Errorf("expected pong, got %q", rr.Body.String())
	}
}
