package server

import (
	"ctchen222/Rock-Paper-Scissors/internal/api/controller"
	"ctchen222/Rock-Paper-Scissors/internal/hub"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	engine          *gin.Engine
	hub             *hub.Hub
	statsController *controller.StatsController
}

// NewServer builds the gin engine. A nil hub disables the /ws feed.
func NewServer(h *hub.Hub, statsController *controller.StatsController) *Server {
	s := &Server{
		engine:          gin.New(),
		hub:             h,
		statsController: statsController,
	}
	s.engine.Use(gin.Recovery(), s.traceRequests)
	s.registerHandlers()
	return s
}

func (s *Server) registerHandlers() {
	api := s.engine.Group("/api")
	{
		api.GET("/history", s.statsController.History)
		api.GET("/summary", s.statsController.Summary)
		api.GET("/stats", s.statsController.Stats)
		api.GET("/leaderboard", s.statsController.Leaderboard)
		api.GET("/players/:name", s.statsController.Player)
		api.GET("/session", s.statsController.Session)
	}

	if s.hub != nil {
		s.engine.GET("/ws", func(c *gin.Context) {
			s.hub.ServeWS(c.Writer, c.Request)
		})
	}
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// traceRequests wraps every request in a span and logs it.
func (s *Server) traceRequests(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server."+c.Request.Method+" "+c.FullPath(), trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	start := time.Now()
	c.Request = c.Request.WithContext(ctx)
	c.Next()

	status := c.Writer.Status()
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status >= 500 {
		span.SetStatus(codes.Error, "Server error")
	}
	slog.DebugContext(ctx, "HTTP request", "http.method", c.Request.Method, "http.path", c.Request.URL.Path, "http.status_code", status, "duration", time.Since(start))
}
