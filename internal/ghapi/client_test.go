// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package ghapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/internal/apperr"
)

func ghError(status int) *github.ErrorResponse {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: status, Request: &http.Request{}},
	}
}

func TestClassify(t *testing.T) {
	reset := time.Now().Add(20 * time.Minute)
	retryAfter := 45 * time.Second

	tests := []struct {
		name     string
		err      error
		wantKind apperr.Kind
	}{
		{
			name: "primary rate limit",
			err: &github.RateLimitError{
				Rate: github.Rate{Reset: github.Timestamp{Time: reset}},
			},
			wantKind: apperr.RateLimited,
		},
		{
			name:     "secondary rate limit",
			err:      &github.AbuseRateLimitError{RetryAfter: &retryAfter},
			wantKind: apperr.RateLimited,
		},
		{
			name:     "not found",
			err:      ghError(http.StatusNotFound),
			wantKind: apperr.NotFound,
		},
		{
			name:     "forbidden",
			err:      ghError(http.StatusForbidden),
			wantKind: apperr.UpstreamError,
		},
		{
			name:     "server error",
			err:      ghError(http.StatusBadGateway),
			wantKind: apperr.UpstreamError,
		},
		{
			name:     "deadline exceeded",
			err:      context.DeadlineExceeded,
			wantKind: apperr.Timeout,
		},
		{
			name:     "anything else",
			err:      errors.New("connection reset"),
			wantKind: apperr.UpstreamError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err, "metadata")
			assert.Equal(t, tt.wantKind, apperr.KindOf(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_RetryAfter(t *testing.T) {
	retryAfter := 45 * time.Second
	got := classify(&github.AbuseRateLimitError{RetryAfter: &retryAfter}, "commits")
	assert.Equal(t, retryAfter, apperr.RetryAfterOf(got))

	got = classify(&github.RateLimitError{
		Rate: github.Rate{Reset: github.Timestamp{Time: time.Now().Add(10 * time.Minute)}},
	}, "commits")
	assert.Greater(t, apperr.RetryAfterOf(got), 9*time.Minute)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, isTransient(ghError(http.StatusNotFound)))
	assert.False(t, isTransient(&github.RateLimitError{}))
	assert.False(t, isTransient(context.Canceled))
	assert.False(t, isTransient(context.DeadlineExceeded))
	assert.False(t, isTransient(errors.New("plain error")))
	assert.True(t, isTransient(&timeoutError{}))
}

// timeoutError satisfies net.Error.
type timeoutError struct{}

func (*timeoutError) Error() string   { return "i/o timeout" }
func (*timeoutError) Timeout() bool   { return true }
func (*timeoutError) Temporary() bool { return true }

func TestOnce_RetriesTransientFaultOnce(t *testing.T) {
	calls := 0
	got, err := once(context.Background(), func() (int, error) {
		calls++
		if calls == 1 {
			return 0, &timeoutError{}
		}
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 2, calls)
}

func TestOnce_DoesNotRetryTypedErrors(t *testing.T) {
	calls := 0
	_, err := once(context.Background(), func() (int, error) {
		calls++
		return 0, ghError(http.StatusNotFound)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestOnce_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := once(ctx, func() (int, error) {
		calls++
		return 0, &timeoutError{}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNotFound(t *testing.T) {
	assert.True(t, notFound(ghError(http.StatusNotFound)))
	assert.False(t, notFound(ghError(http.StatusForbidden)))
	assert.False(t, notFound(errors.New("nope")))
}
