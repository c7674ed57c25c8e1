// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

// Package server exposes the analysis service over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/repolens/repolens/internal/chat"
	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/llm"
	"github.com/repolens/repolens/internal/orchestrator"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownGrace     = 10 * time.Second

	// maxBodyBytes bounds request bodies. Analysis payloads round-trip
	// through /api/chat and /api/export, so the cap is generous.
	maxBodyBytes = 4 << 20
)

// Server wires the orchestrator, chat adapter, and export registry into
// an HTTP surface.
type Server struct {
	cfg     config.Config
	orch    *orchestrator.Orchestrator
	chat    *chat.Adapter
	started time.Time

	analyzeLimiter *clientLimiter
	generalLimiter *clientLimiter

	// adapterForKey builds a chat adapter around a caller-supplied API
	// key. Overridable in tests.
	adapterForKey func(apiKey string) (*chat.Adapter, error)
}

// New creates a Server. chatAdapter may be backed by a nil provider when
// no AI key is configured; chat endpoints then report AIUnavailable.
func New(cfg config.Config, orch *orchestrator.Orchestrator, chatAdapter *chat.Adapter) *Server {
	return &Server{
		cfg:            cfg,
		orch:           orch,
		chat:           chatAdapter,
		started:        time.Now(),
		analyzeLimiter: newClientLimiter(cfg.AnalyzePerHour),
		generalLimiter: newClientLimiter(cfg.RequestsPerHour),
		adapterForKey:  anthropicAdapterForKey,
	}
}

func anthropicAdapterForKey(apiKey string) (*chat.Adapter, error) {
	provider, err := llm.NewAnthropicProvider(llm.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return chat.NewAdapter(provider), nil
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /api/status", s.generalLimiter.wrap(http.HandlerFunc(s.handleStatus)))
	mux.Handle("POST /api/analyze", s.analyzeLimiter.wrap(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("POST /api/chat", s.generalLimiter.wrap(http.HandlerFunc(s.handleChat)))
	mux.Handle("POST /api/suggestions", s.generalLimiter.wrap(http.HandlerFunc(s.handleSuggestions)))
	mux.Handle("POST /api/export", s.generalLimiter.wrap(http.HandlerFunc(s.handleExport)))
	mux.Handle("GET /api/cache/stats", s.generalLimiter.wrap(http.HandlerFunc(s.handleCacheStats)))
	mux.Handle("POST /api/cache/clear", s.generalLimiter.wrap(http.HandlerFunc(s.handleCacheClear)))

	return withRequestID(withRequestLogging(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
