package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/reelid/reelid/internal/api/ratelimit"
	"github.com/reelid/reelid/internal/config"
	"github.com/reelid/reelid/internal/metadata"
	"github.com/reelid/reelid/internal/scheduler"
)

// Version is set at build time.
var Version = "0.0.1-dev"

// Server handles HTTP requests for the resolution API.
type Server struct {
	echo      *echo.Echo
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	resolver  *metadata.Resolver
	scheduler *scheduler.Scheduler
	logs      LogsProvider
	limiter   *ratelimit.IPLimiter
}

// NewServer creates a new API server instance. sched and logs may be nil.
func NewServer(cfg *config.Config, resolver *metadata.Resolver, sched *scheduler.Scheduler, logs LogsProvider, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		logger:    logger.With().Str("component", "api").Logger(),
		cfg:       cfg,
		startTime: time.Now(),
		resolver:  resolver,
		scheduler: sched,
		logs:      logs,
		limiter:   ratelimit.NewIPLimiter(cfg.Server.RateLimit),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(ctx context.Context, address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	s.limiter.StartCleanup(ctx, 5*time.Minute)
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getSystemStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"version":   Version,
		"startTime": s.startTime.Format(time.RFC3339),
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
		"devMode":   s.cfg.Catalog.DevMode,
		"matchMode": s.cfg.Resolver.MatchMode,
	})
}
