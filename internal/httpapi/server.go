// Package httpapi exposes the portal over an HTTP JSON API.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/marliontech/portald/internal/config"
	"github.com/marliontech/portald/internal/genai"
	"github.com/marliontech/portald/internal/lifecycle"
	"github.com/marliontech/portald/internal/metrics"
)

// Server provides the HTTP endpoints for portald.
type Server struct {
	echo       *echo.Echo
	store      *lifecycle.Service
	interviews *InterviewSet
	collab     genai.Collaborator
	logger     *zap.Logger
	metrics    *metrics.Metrics
	cfg        config.ServerConfig
}

// NewServer creates the HTTP server. The gatherer serves /metrics and may
// be nil to disable the endpoint.
func NewServer(cfg config.ServerConfig, store *lifecycle.Service, interviews *InterviewSet, collab genai.Collaborator, logger *zap.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("lifecycle store is required")
	}
	if interviews == nil {
		return nil, fmt.Errorf("interview set is required")
	}
	if collab == nil {
		return nil, fmt.Errorf("collaborator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			m.HTTPRequest(c.Request().Method, c.Path(), strconv.Itoa(c.Response().Status))

			return err
		}
	})

	s := &Server{
		echo:       e,
		store:      store,
		interviews: interviews,
		collab:     collab,
		logger:     logger,
		metrics:    m,
		cfg:        cfg,
	}
	s.registerRoutes(gatherer)

	return s, nil
}

func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.echo.GET("/healthz", s.handleHealth)
	if gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(
			promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/register", s.handleRegister)
	v1.POST("/login", s.handleLogin)

	auth := v1.Group("", s.requireSession)
	auth.POST("/logout", s.handleLogout)
	auth.GET("/me", s.handleMe)

	student := auth.Group("", s.requireStudent)
	student.POST("/me/proposal", s.handleSubmitProposal)
	student.POST("/me/logs", s.handleAppendLog)
	student.POST("/me/progress", s.handleSetProgress)
	student.POST("/me/accept-offer", s.handleAcceptOffer)
	student.POST("/me/course-help", s.handleCourseHelp)
	student.POST("/interview/greeting", s.handleInterviewGreeting)
	student.POST("/interview/turn", s.handleInterviewTurn)
	student.POST("/interview/paste", s.handleInterviewPaste)

	admin := auth.Group("", s.requireAdmin)
	admin.GET("/students", s.handleStudents)
	admin.POST("/students/:id/decision", s.handleDecision)
	admin.POST("/students/:id/ban", s.handleBan)
	admin.POST("/students/:id/proposal/decision", s.handleProposalDecision)
}

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
