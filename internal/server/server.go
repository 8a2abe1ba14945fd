package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calorievision/backend/config"
	"github.com/calorievision/backend/internal/api"
	"github.com/calorievision/backend/internal/database"
	"github.com/calorievision/backend/internal/middleware"
	"github.com/calorievision/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a new server instance with all routes registered.
func New(cfg *config.Config, diagnostics database.Diagnostics, auth service.IAuthService, meals service.IMealService) *Server {
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	api.RegisterRoutes(router, cfg, diagnostics, auth, meals)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    ":" + cfg.ServerPort,
			Handler: router,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
