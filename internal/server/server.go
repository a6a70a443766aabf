// Package server exposes the notification poller over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/loggo"

	"github.com/nhle/venuedesk/internal/model"
)

var logger = loggo.GetLogger("venuedesk.server")

// Notifier is the part of the poller the HTTP surface drives.
type Notifier interface {
	Snapshot() model.Snapshot
	Refresh(ctx context.Context) model.Snapshot
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
}

// Server serves the notification snapshot and its mutations.
type Server struct {
	notifier Notifier
	router   *gin.Engine
}

// New builds the router. Set gin's mode before calling it.
func New(n Notifier) *Server {
	s := &Server{
		notifier: n,
		router:   gin.New(),
	}
	s.router.Use(gin.Recovery(), requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "venuedesk",
		})
	})

	api := s.router.Group("/api/notifications")
	{
		api.GET("", s.getNotifications)
		api.POST("/refresh", s.refresh)
		api.POST("/read-all", s.markAllRead)
		api.POST("/:id/read", s.markRead)
	}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) getNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, s.notifier.Snapshot())
}

func (s *Server) refresh(c *gin.Context) {
	c.JSON(http.StatusOK, s.notifier.Refresh(c.Request.Context()))
}

func (s *Server) markRead(c *gin.Context) {
	id := c.Param("id")
	if err := s.notifier.MarkAsRead(c.Request.Context(), id); err != nil {
		logger.Errorf("marking %q read: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save read-state"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) markAllRead(c *gin.Context) {
	if err := s.notifier.MarkAllAsRead(c.Request.Context()); err != nil {
		logger.Errorf("marking all read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save read-state"})
		return
	}
	c.Status(http.StatusNoContent)
}

// requestLogger logs each request at debug level through loggo.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("%s %s %d %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
