package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dpetrakis/pulsedash/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RoutesRegistry is a function that registers routes on a chi.Router
type RoutesRegistry func(r chi.Router)

// ServiceConfig carries everything needed to build a Service.
type ServiceConfig struct {
	Addr         string
	Logger       *slog.Logger
	Routes       RoutesRegistry
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Service wraps an HTTP server with its router and configuration.
type Service struct {
	Logger     *slog.Logger
	HTTPServer *http.Server
	Router     *chi.Mux
}

// NewService builds the router, applies the common middleware stack, registers
// the given routes, and wires the HTTP server with sane timeout defaults.
func NewService(cfg ServiceConfig) *Service {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(logging.RequestLogger(cfg.Logger))
	router.Use(middleware.Recoverer)

	if cfg.Routes != nil {
		cfg.Routes(router)
	}

	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 15 * time.Second
	}
	idleTimeout := cfg.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = 60 * time.Second
	}

	return &Service{
		Logger: cfg.Logger,
		Router: router,
		HTTPServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
	}
}

// ListenAndServeWrapper starts the http service
func (s *Service) ListenAndServeWrapper(service string) error {
	s.Logger.Info("starting http service", slog.String("service", service), slog.String("addr", s.HTTPServer.Addr))
	return s.HTTPServer.ListenAndServe()
}
