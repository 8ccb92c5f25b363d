package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grachmannico95/topup-gateway/internal/config"
	"github.com/grachmannico95/topup-gateway/internal/handler"
	"github.com/grachmannico95/topup-gateway/internal/middleware"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	echo           *echo.Echo
	cfg            *config.Config
	logger         *logger.Logger
	gatewayHandler *handler.GatewayHandler
	healthHandler  *handler.HealthHandler
	kafkaMetrics   http.Handler
}

// Option customises the server before routes are registered.
type Option func(*Server)

// WithKafkaMetrics exposes the Kafka client collectors at /metrics/kafka.
func WithKafkaMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.kafkaMetrics = h
	}
}

func New(
	cfg *config.Config,
	log *logger.Logger,
	gatewayHandler *handler.GatewayHandler,
	healthHandler *handler.HealthHandler,
	opts ...Option,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// The allowlist check needs the connection address, not a client-supplied header.
	e.IPExtractor = echo.ExtractIPDirect()

	s := &Server{
		echo:           e,
		cfg:            cfg,
		logger:         log,
		gatewayHandler: gatewayHandler,
		healthHandler:  healthHandler,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info(context.Background(), "Starting HTTP server",
		"address", addr,
	)

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupMiddleware() {
	s.echo.Use(echoMiddleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.Logging(s.logger))
	s.echo.Use(middleware.Metrics())
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthHandler.Check)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if s.kafkaMetrics != nil {
		s.echo.GET("/metrics/kafka", echo.WrapHandler(s.kafkaMetrics))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/operators/:operator/topup", s.gatewayHandler.Topup)
	v1.GET("/operators/:operator/availability", s.gatewayHandler.Availability)
	v1.GET("/transactions/verify", s.gatewayHandler.Verify)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}
