// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package server wires configuration, loaders and the document entry point
// into the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ManuGH/monograph/internal/cache"
	"github.com/ManuGH/monograph/internal/config"
	controlhttp "github.com/ManuGH/monograph/internal/control/http"
	"github.com/ManuGH/monograph/internal/control/http/problem"
	"github.com/ManuGH/monograph/internal/control/middleware"
	"github.com/ManuGH/monograph/internal/csp"
	"github.com/ManuGH/monograph/internal/health"
	"github.com/ManuGH/monograph/internal/log"
	"github.com/ManuGH/monograph/internal/monograph"
	"github.com/ManuGH/monograph/internal/render"
)

// ReportPath is where browsers send CSP violation reports.
const ReportPath = "/api/csp-report"

// Deps overrides collaborators that are otherwise built from configuration.
type Deps struct {
	Version  string
	Cache    cache.Cache       // nil: built from cfg.Cache, closed on Shutdown
	Fetcher  monograph.Fetcher // nil: HTTP client for cfg.Upstream
	Renderer render.Renderer   // nil: built-in templates

	NonceSource middleware.NonceSource // nil: csp.NewNonce
}

// Server is the monograph HTTP server.
type Server struct {
	cfg    config.AppConfig
	logger zerolog.Logger

	policy atomic.Pointer[csp.Policy]

	cache      cache.Cache
	ownsCache  bool
	store      *monograph.Store
	documents  *render.Handler
	health     *health.Manager
	handler    http.Handler
	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener
	serveErr chan error
}

// New builds a server for cfg. It does not bind the listen address.
func New(ctx context.Context, cfg config.AppConfig, deps Deps) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: log.WithComponent("server"),
		health: health.NewManager(deps.Version),
	}
	s.setPolicy(cfg.Policy())

	c := deps.Cache
	if c == nil {
		built, err := cache.New(ctx, cache.Config{
			Backend:         cfg.Cache.Backend,
			CleanupInterval: cfg.Cache.CleanupInterval,
			Redis: cache.RedisConfig{
				Addr:      cfg.Cache.Redis.Addr,
				Password:  cfg.Cache.Redis.Password,
				DB:        cfg.Cache.Redis.DB,
				KeyPrefix: cfg.Cache.Redis.KeyPrefix,
			},
			Badger: cache.BadgerConfig{Path: cfg.Cache.Badger.Path},
		}, log.WithComponent("cache"))
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
		c = built
		s.ownsCache = true
	}
	s.cache = c
	if pinger, ok := c.(interface{ HealthCheck(context.Context) error }); ok {
		s.health.RegisterChecker(health.NewFuncChecker("cache", pinger.HealthCheck, health.StatusDegraded))
	}

	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = monograph.NewClient(cfg.Upstream.BaseURL, monograph.Options{
			Timeout:        cfg.Upstream.Timeout,
			RateLimit:      rate.Limit(cfg.Upstream.RateLimit),
			RateLimitBurst: cfg.Upstream.Burst,
		})
	}
	s.store = monograph.NewStore(fetcher, c, cfg.Cache.TTL)

	renderer := deps.Renderer
	sheet := render.NewTheme()
	if renderer == nil {
		tr, err := render.NewTemplateRenderer(sheet)
		if err != nil {
			s.closeCache()
			return nil, fmt.Errorf("init renderer: %w", err)
		}
		renderer = tr
	}
	s.documents = render.NewHandler(renderer, sheet, s.Policy)

	proxies, err := middleware.ParseCIDRs(cfg.TrustedProxies)
	if err != nil {
		s.closeCache()
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	tracingService := ""
	if cfg.Telemetry.Enabled {
		tracingService = cfg.Log.Service
	}
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		Policy:                s.Policy,
		NonceSource:           deps.NonceSource,
		TrustedProxies:        proxies,
		EnableMetrics:         cfg.Metrics.Enabled,
		TracingService:        tracingService,
		EnableLogging:         true,
		EnableRateLimit:       cfg.RateLimit.Enabled,
		RateLimitRequests:     cfg.RateLimit.Requests,
		RateLimitWindow:       cfg.RateLimit.Window,
	})
	s.routes(r)
	s.handler = r

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return s, nil
}

func (s *Server) routes(r chi.Router) {
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	if s.cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Handle("/assets/*", controlhttp.AssetsHandler(controlhttp.AssetsConfig{Prefix: "/assets"}))
	r.Post(ReportPath, s.handleCSPReport)

	r.Get("/", s.handleHome)
	r.Get("/{id}", s.handleMonograph)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		problem.Write(w, r, http.StatusMethodNotAllowed, "http/method_not_allowed", "Method Not Allowed", "METHOD_NOT_ALLOWED", "", nil)
	})
}

// Handler returns the HTTP handler with all routes and middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Policy returns the CSP settings currently in effect.
func (s *Server) Policy() csp.Policy {
	return *s.policy.Load()
}

func (s *Server) setPolicy(p csp.Policy) {
	s.policy.Store(&p)
}

// ApplyConfig applies the hot-reloadable parts of cfg: CSP policy inputs and
// log level. Other changes need a restart.
func (s *Server) ApplyConfig(cfg config.AppConfig) {
	s.setPolicy(cfg.Policy())
	if err := log.SetLevel(cfg.Log.Level); err != nil {
		s.logger.Warn().Err(err).Msg("ignoring invalid log level from reload")
	}
	s.logger.Info().
		Bool("development", cfg.IsDevelopment()).
		Bool("csp_report_uri", cfg.CSP.ReportURI != "").
		Msg("applied reloaded configuration")
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr, err)
	}
	s.listener = ln
	s.serveErr = make(chan error, 1)

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Str("environment", s.cfg.Environment).
		Msg("HTTP server listening")

	go func() {
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.serveErr <- err
		close(s.serveErr)
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Errors reports a serve failure. It yields nil after a clean shutdown.
func (s *Server) Errors() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// Shutdown marks the server as draining, stops accepting connections, waits
// for in-flight requests and releases owned resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")
	s.health.SetDraining(true)

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	s.mu.Lock()
	serveErr := s.serveErr
	s.mu.Unlock()
	if serveErr != nil {
		select {
		case err := <-serveErr:
			if err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
	}

	if err := s.closeCache(); err != nil {
		errs = append(errs, fmt.Errorf("close cache: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Server) closeCache() error {
	if !s.ownsCache || s.cache == nil {
		return nil
	}
	return s.cache.Close()
}
