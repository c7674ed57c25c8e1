// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/repolens/repolens/internal/apperr"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID returns the identifier assigned to the request, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// withRequestID assigns a UUID to each request and echoes it in the
// X-Request-ID response header. An incoming header wins so callers can
// correlate across services.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", RequestID(r.Context()),
		)
	})
}

// clientLimiter enforces a per-client hourly request budget. Clients are
// keyed by IP; limiters for idle clients are pruned periodically.
type clientLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientEntry
	limit    rate.Limit
	burst    int
	lastSeen time.Duration
}

type clientEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newClientLimiter(perHour int) *clientLimiter {
	if perHour <= 0 {
		perHour = 1
	}
	return &clientLimiter{
		clients:  make(map[string]*clientEntry),
		limit:    rate.Every(time.Hour / time.Duration(perHour)),
		burst:    perHour,
		lastSeen: 2 * time.Hour,
	}
}

func (cl *clientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	entry, ok := cl.clients[client]
	if !ok {
		// Prune idle clients on the miss path so no background goroutine
		// is needed.
		for key, e := range cl.clients {
			if now.Sub(e.seen) > cl.lastSeen {
				delete(cl.clients, key)
			}
		}
		entry = &clientEntry{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[client] = entry
	}
	entry.seen = now
	return entry.limiter
}

func (cl *clientLimiter) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := cl.limiterFor(clientIP(r))
		reservation := limiter.Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			err := apperr.New(apperr.RateLimited, "rate limit exceeded")
			err.RetryAfter = delay
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP identifies the caller, honoring X-Forwarded-For when a proxy
// sits in front of the service.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
