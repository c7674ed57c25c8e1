// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

// Package export serializes analysis reports into downloadable formats.
package export

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/repolens/repolens/internal/analyzer"
	"github.com/repolens/repolens/internal/apperr"
)

// Formatter writes an analysis report to the given writer in a specific
// format. Output is deterministic for a fixed report and timestamp.
type Formatter interface {
	// Name returns the format name (e.g., "json", "csv", "document").
	Name() string

	// ContentType returns the MIME type for HTTP responses.
	ContentType() string

	// Extension returns the file extension without the dot.
	Extension() string

	// Format writes the report to w.
	Format(report *analyzer.Report, w io.Writer) error
}

var (
	fmtMu       sync.RWMutex
	fmtRegistry = make(map[string]Formatter)
)

// Register adds a formatter to the global registry.
func Register(f Formatter) {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry[f.Name()] = f
}

// Get returns the formatter with the given name. Unknown names fail with
// InvalidInput since format is a user-supplied field.
func Get(name string) (Formatter, error) {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	f, ok := fmtRegistry[name]
	if !ok {
		return nil, apperr.Newf(apperr.InvalidInput,
			"unknown export format %q (available: %s)", name, formatNames())
	}
	return f, nil
}

// formatNames returns a comma-separated sorted list of registered format
// names. Caller must hold fmtMu.
func formatNames() string {
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
