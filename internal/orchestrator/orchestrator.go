// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

// Package orchestrator coordinates cache lookup, concurrent facet
// fetching, and analysis for a repository URL.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/repolens/repolens/internal/analyzer"
	"github.com/repolens/repolens/internal/apperr"
	"github.com/repolens/repolens/internal/cache"
	"github.com/repolens/repolens/internal/ghapi"
)

const defaultAnalyzeTimeout = 60 * time.Second

// Orchestrator owns the analysis lifecycle: it validates the URL, checks
// the cache, fetches facets, runs the analyzer, and stores the result.
// Failures are never cached.
type Orchestrator struct {
	client  *ghapi.Client
	store   *cache.Store[*analyzer.Report]
	group   singleflight.Group
	timeout time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds one whole analysis, fetch and compute included.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// New creates an Orchestrator around a GitHub client and a report cache.
func New(client *ghapi.Client, store *cache.Store[*analyzer.Report], opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:  client,
		store:   store,
		timeout: defaultAnalyzeTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GetAnalysis returns the report for repoURL, computing and caching it
// on miss. Repeated calls within the cache TTL return equal reports
// without refetching. Concurrent calls for the same uncached repository
// share one upstream fetch.
func (o *Orchestrator) GetAnalysis(ctx context.Context, repoURL string) (*analyzer.Report, error) {
	ref, err := ghapi.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	key := ref.String()

	if report, ok := o.store.Get(key); ok {
		slog.Debug("analysis cache hit", "repo", key)
		return report, nil
	}

	// DoChan rather than Do so an abandoned caller does not block; the
	// shared computation itself continues with its own deadline.
	ch := o.group.DoChan(key, func() (any, error) {
		return o.compute(key, ref)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		report := res.Val.(*analyzer.Report)
		if res.Shared {
			// Hand each caller its own copy, same as a cache hit would.
			report = report.Clone()
		}
		return report, nil
	case <-ctx.Done():
		return nil, apperr.Wrap(apperr.Timeout, "analysis abandoned before completion", ctx.Err())
	}
}

// compute performs the uncached path under the orchestrator's own
// end-to-end deadline.
func (o *Orchestrator) compute(key string, ref ghapi.RepoRef) (*analyzer.Report, error) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	start := time.Now()
	facets, err := o.client.FetchFacets(ctx, ref)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.Timeout, "analysis timed out", err)
		}
		return nil, err
	}

	report, err := analyzer.Analyze(facets, "https://github.com/"+key)
	if err != nil {
		return nil, err
	}

	o.store.Put(key, report)
	slog.Info("analysis computed",
		"repo", key,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report, nil
}

// CacheStats exposes the underlying cache counters.
func (o *Orchestrator) CacheStats() cache.Stats {
	return o.store.Stats()
}

// ClearCache evicts all cached reports and resets counters.
func (o *Orchestrator) ClearCache() {
	o.store.Clear()
	slog.Info("analysis cache cleared")
}
