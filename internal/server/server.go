// Package server exposes the bot's health, status and metrics over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Alias1177/signalbot/internal/engine"
	"github.com/Alias1177/signalbot/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultSignalLimit = 20
	maxSignalLimit     = 500
)

// StatusProvider reports the engine state.
type StatusProvider interface {
	Status() engine.Status
	Config() model.BotConfig
}

// SignalHistory lists journaled cycles.
type SignalHistory interface {
	RecentSignals(ctx context.Context, symbol string, limit int) ([]model.SignalRecord, error)
}

// Option configures Server.
type Option func(*Server)

// WithGatherer serves /metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithSignalHistory enables GET /signals.
func WithSignalHistory(h SignalHistory) Option {
	return func(s *Server) { s.history = h }
}

// Server wraps an Echo instance.
type Server struct {
	echo     *echo.Echo
	addr     string
	status   StatusProvider
	history  SignalHistory
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
}

type statusResponse struct {
	engine.Status
	Config model.BotConfig `json:"config"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// New creates the server listening on addr.
func New(addr string, status StatusProvider, opts ...Option) *Server {
	s := &Server{
		echo:     echo.New(),
		addr:     addr,
		status:   status,
		gatherer: prometheus.DefaultGatherer,
		logger:   log.With().Str("component", "http_server").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(s.recoverMiddleware(), s.loggingMiddleware())

	s.echo.GET("/healthz", s.health)
	s.echo.GET("/status", s.statusHandler)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	if s.history != nil {
		s.echo.GET("/signals", s.signals)
	}

	return s
}

// Start serves in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("HTTP server listening")
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) statusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Status: s.status.Status(),
		Config: s.status.Config(),
	})
}

func (s *Server) signals(c echo.Context) error {
	limit := defaultSignalLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxSignalLimit {
			return c.JSON(http.StatusBadRequest, errorResponse{
				Message: fmt.Sprintf("limit must be between 1 and %d", maxSignalLimit),
			})
		}
		limit = n
	}

	symbol := s.status.Config().Symbol
	records, err := s.history.RecentSignals(c.Request().Context(), symbol, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load signal history")
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "signal history unavailable"})
	}
	if records == nil {
		records = []model.SignalRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) recoverMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error().Interface("panic", r).Str("path", c.Path()).Msg("Recovered from panic")
					err = c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal Server Error"})
				}
			}()
			return next(c)
		}
	}
}

func (s *Server) loggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			s.logger.Debug().
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Msg("HTTP request")
			return err
		}
	}
}
