// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

// Package cache provides an in-memory TTL store for computed analyses.
//
// The store is process-lifetime-scoped: it starts empty and is discarded
// at shutdown. Entries expire lazily on lookup, and the least recently
// accessed entry is evicted when the store is full.
package cache

import (
	"sync"
	"time"
)

// Stats reports cache effectiveness counters.
type Stats struct {
	HitCount  int64 `json:"hit_count"`
	MissCount int64 `json:"miss_count"`
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
}

type entry[V any] struct {
	value      V
	expiresAt  time.Time
	accessedAt time.Time
}

// Store is a thread-safe TTL cache. The clone function supplied at
// construction enforces value semantics: callers never share a live
// reference with the cache or with each other.
type Store[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	hits       int64
	misses     int64
	maxEntries int
	defaultTTL time.Duration
	clone      func(V) V

	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time
}

// New creates a Store holding at most maxEntries values for ttl each.
// If clone is nil, values are stored and returned as-is.
func New[V any](maxEntries int, ttl time.Duration, clone func(V) V) *Store[V] {
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &Store[V]{
		entries:    make(map[string]entry[V]),
		maxEntries: maxEntries,
		defaultTTL: ttl,
		clone:      clone,
		nowFunc:    time.Now,
	}
}

// Get returns the cached value for key if present and unexpired.
// Expired entries are removed on the spot and count as misses.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	e, ok := s.entries[key]
	if ok && now.Before(e.expiresAt) {
		s.hits++
		e.accessedAt = now
		s.entries[key] = e
		return s.clone(e.value), true
	}
	if ok {
		delete(s.entries, key)
	}

	s.misses++
	var zero V
	return zero, false
}

// Put stores value under key with the default TTL.
func (s *Store[V]) Put(key string, value V) {
	s.PutTTL(key, value, s.defaultTTL)
}

// PutTTL stores value under key with an explicit TTL, evicting the least
// recently accessed entry first if the store is full.
func (s *Store[V]) PutTTL(key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOldest()
	}

	now := s.nowFunc()
	s.entries[key] = entry[V]{
		value:      s.clone(value),
		expiresAt:  now.Add(ttl),
		accessedAt: now,
	}
}

// evictOldest removes the least recently accessed entry.
// Caller must hold s.mu.
func (s *Store[V]) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range s.entries {
		if oldestKey == "" || e.accessedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.accessedAt
		}
	}
	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}

// Clear removes all entries and resets the hit/miss counters.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry[V])
	s.hits = 0
	s.misses = 0
}

// Stats returns a snapshot of the counters and current size.
func (s *Store[V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		HitCount:  s.hits,
		MissCount: s.misses,
		Size:      len(s.entries),
		MaxSize:   s.maxEntries,
	}
}
