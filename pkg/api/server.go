package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
	"github.com/jakechorley/volunteer-roster/pkg/metrics"
)

// VolunteerService defines the roster operations exposed over HTTP.
// *services.VolunteerService implements this interface.
type VolunteerService interface {
	CreateVolunteer(ctx context.Context, volunteer model.Volunteer) (model.Volunteer, error)
	UpdateVolunteer(ctx context.Context, id string, patch model.Volunteer) (model.Volunteer, error)
	DeleteVolunteer(ctx context.Context, id string) error
	GetVolunteerByID(id string) (model.Volunteer, error)
	GetAllVolunteers() []model.Volunteer
	SearchVolunteers(q model.SearchQuery) []model.Volunteer
}

// Server runs the roster HTTP API
type Server struct {
	server  *http.Server
	service VolunteerService
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewServer creates a server for the given service. collector may be nil.
func NewServer(service VolunteerService, logger *zap.Logger, collector *metrics.Collector) *Server {
	return &Server{
		service: service,
		logger:  logger,
		metrics: collector,
	}
}

// Run starts serving on addr and blocks until the server stops
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server listening", zap.String("addr", addr))

	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler builds the gin router
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	volunteerRoute := r.Group("/api/volunteers")
	{
		volunteerRoute.POST("", s.createVolunteer)
		volunteerRoute.GET("", s.getAllVolunteers)
		volunteerRoute.GET("/search", s.searchVolunteers)
		volunteerRoute.GET("/:id", s.getVolunteer)
		volunteerRoute.PUT("/:id", s.updateVolunteer)
		volunteerRoute.DELETE("/:id", s.deleteVolunteer)
	}

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return r
}

// requestLogger logs each request and records it in the metrics collector
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		s.metrics.HTTPRequest(c.Request.Method, route, status)
		s.logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
	}
}

func zapRequest(c *gin.Context, err error) []zap.Field {
	return []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "OK",
		"volunteers": len(s.service.GetAllVolunteers()),
	})
}
