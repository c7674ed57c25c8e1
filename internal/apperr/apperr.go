// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

// Package apperr defines the error taxonomy shared by all repolens
// components. Every failure that crosses a component boundary carries a
// Kind so callers can map it to an HTTP status or an exit code without
// string matching.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a failure.
type Kind string

const (
	// InvalidInput marks a user-correctable problem such as a malformed
	// repository URL or a missing required field.
	InvalidInput Kind = "invalid_input"

	// NotFound marks an absent repository or sub-resource.
	NotFound Kind = "not_found"

	// RateLimited marks an exhausted request budget, either this service's
	// own limiter or the upstream GitHub quota.
	RateLimited Kind = "rate_limited"

	// UpstreamError marks a network fault or unexpected non-success
	// response from an external dependency.
	UpstreamError Kind = "upstream_error"

	// AIUnavailable marks an unreachable or unconfigured chat backend.
	AIUnavailable Kind = "ai_unavailable"

	// Timeout marks an exceeded end-to-end deadline.
	Timeout Kind = "timeout"
)

// Error is a classified error. RetryAfter is populated only for
// RateLimited failures that carry an upstream reset hint.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration
	err        error
}

// New creates a classified error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error. Returns nil if err is nil.
func Wrap(kind Kind, message string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.Message + ": " + e.err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// KindOf returns the Kind carried by err, or UpstreamError when err carries
// none. Nil errors have no kind; callers must check err != nil first.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return UpstreamError
}

// RetryAfterOf returns the reset hint carried by err, or zero.
func RetryAfterOf(err error) time.Duration {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.RetryAfter
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
