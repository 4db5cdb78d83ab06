// Package api exposes the catalog engine and personal library over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/reelscope/reelscope/internal/catalog"
	"github.com/reelscope/reelscope/internal/config"
	"github.com/reelscope/reelscope/internal/library"
	"github.com/reelscope/reelscope/internal/scheduler"
	"github.com/reelscope/reelscope/internal/websocket"
)

// Server handles HTTP requests for the ReelScope API.
type Server struct {
	echo      *echo.Echo
	catalog   *catalog.Service
	library   *library.Store
	scheduler *scheduler.Scheduler
	hub       *websocket.Hub
	logger    zerolog.Logger
	cfg       *config.Config
}

// NewServer creates a new API server instance.
func NewServer(
	catalogService *catalog.Service,
	libraryStore *library.Store,
	sched *scheduler.Scheduler,
	hub *websocket.Hub,
	cfg *config.Config,
	logger zerolog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		catalog:   catalogService,
		library:   libraryStore,
		scheduler: sched,
		hub:       hub,
		logger:    logger.With().Str("component", "api").Logger(),
		cfg:       cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Debug().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ws", s.hub.HandleWebSocket)

	api := s.echo.Group("/api/v1")

	// Catalog routes
	api.GET("/discover", s.discover)
	api.GET("/search", s.search)
	api.GET("/genres/:type", s.genres)
	api.GET("/media/:type/:id", s.mediaDetail)
	api.GET("/networks", s.networks)
	api.POST("/networks/refresh", s.refreshNetworks)
	api.DELETE("/cache", s.clearCache)

	// Library routes
	lib := api.Group("/library")
	lib.GET("/watchlist", s.getWatchlist)
	lib.POST("/watchlist", s.addToWatchlist)
	lib.DELETE("/watchlist/:mediaType/:mediaId", s.removeFromWatchlist)
	lib.GET("/continue-watching", s.getContinueWatching)
	lib.PUT("/continue-watching", s.saveProgress)
	lib.GET("/playlists", s.listPlaylists)
	lib.POST("/playlists", s.createPlaylist)
	lib.GET("/playlists/:id", s.getPlaylist)
	lib.PUT("/playlists/:id", s.renamePlaylist)
	lib.DELETE("/playlists/:id", s.deletePlaylist)
	lib.POST("/playlists/:id/items", s.addPlaylistItem)
	lib.PUT("/playlists/:id/items", s.reorderPlaylistItems)
	lib.DELETE("/playlists/:id/items/:itemId", s.removePlaylistItem)

	// Background tasks
	api.GET("/tasks", s.listTasks)
	api.POST("/tasks/:id/run", s.runTask)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := s.cfg.Server.Address()
	s.logger.Info().Str("address", addr).Msg("Starting HTTP server")
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// healthCheck reports service liveness.
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

// listTasks returns the registered background tasks.
func (s *Server) listTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, s.scheduler.ListTasks())
}

// runTask triggers a registered task immediately.
func (s *Server) runTask(c echo.Context) error {
	taskID := c.Param("id")
	if err := s.scheduler.RunNow(taskID); err != nil {
		switch {
		case errors.Is(err, scheduler.ErrTaskNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, scheduler.ErrTaskRunning):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusAccepted, map[string]string{"id": taskID, "status": "started"})
}
