// Package ingest exposes the HTTP webhook through which external bridges
// (bots, exporters, relays) hand channel messages to the monitor.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prowl/internal/model"
	"prowl/internal/monitor"
)

// Server receives messages over HTTP and emits them on a buffered channel
// consumed by the monitor. It implements service.MessageSource.
type Server struct {
	messages chan model.Message
	allowed  map[string]bool
	addr     string
}

// messageRequest is the POST /v1/messages payload.
type messageRequest struct {
	Channel   string    `json:"channel" binding:"required"`
	Text      string    `json:"text"`
	MessageID int64     `json:"message_id"`
	PostedAt  time.Time `json:"posted_at"`
}

// NewServer creates a webhook server listening on addr. When channels is
// non-empty, messages from other channels are dropped.
func NewServer(addr string, channels []string) *Server {
	allowed := make(map[string]bool, len(channels))
	for _, c := range channels {
		allowed[monitor.NormalizeChannelID(c)] = true
	}

	return &Server{
		addr:     addr,
		allowed:  allowed,
		messages: make(chan model.Message, 64),
	}
}

// Messages returns the channel the monitor consumes.
func (s *Server) Messages() <-chan model.Message {
	return s.messages
}

// Run serves the webhook until ctx is done, then shuts down gracefully
// and closes the message channel.
func (s *Server) Run(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/v1/messages", s.handleMessage)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info("Ingest server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		close(s.messages)
		return fmt.Errorf("ingest server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	close(s.messages)
	if err != nil {
		return fmt.Errorf("ingest server shutdown failed: %w", err)
	}
	return nil
}

// handleMessage validates and enqueues one inbound message.
func (s *Server) handleMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel := monitor.NormalizeChannelID(req.Channel)
	if len(s.allowed) > 0 && !s.allowed[channel] {
		slog.Debug("Dropping message from unwatched channel", "channel", req.Channel)
		c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
		return
	}

	msg := model.Message{
		Channel:  channel,
		Text:     req.Text,
		ID:       req.MessageID,
		PostedAt: req.PostedAt,
	}

	select {
	case s.messages <- msg:
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
	case <-c.Request.Context().Done():
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request canceled"})
	}
}
