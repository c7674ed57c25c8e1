// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/repolens/repolens/internal/apperr"
	"github.com/repolens/repolens/internal/redact"
)

// errorPayload is the wire form of every failure response.
type errorPayload struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind       apperr.Kind `json:"kind"`
	Message    string      `json:"message"`
	RetryAfter int         `json:"retry_after,omitempty"`
}

// statusFor maps error kinds to HTTP status codes. Unclassified errors
// fall through KindOf to UpstreamError.
var statusFor = map[apperr.Kind]int{
	apperr.InvalidInput:  http.StatusBadRequest,
	apperr.NotFound:      http.StatusNotFound,
	apperr.RateLimited:   http.StatusTooManyRequests,
	apperr.UpstreamError: http.StatusBadGateway,
	apperr.AIUnavailable: http.StatusBadGateway,
	apperr.Timeout:       http.StatusGatewayTimeout,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status, ok := statusFor[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := errorBody{Kind: kind, Message: redact.String(err.Error())}
	if retryAfter := apperr.RetryAfterOf(err); retryAfter > 0 {
		seconds := int(retryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		body.RetryAfter = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"kind", kind,
			"error", err,
		)
	}
	writeJSON(w, status, errorPayload{Error: body})
}
