// Copyright 2026 The Repolens Authors
// SPDX-License-Identifier: MIT

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/repolens/repolens/internal/analyzer"
	"github.com/repolens/repolens/internal/apperr"
	"github.com/repolens/repolens/internal/chat"
	"github.com/repolens/repolens/internal/export"
)

// decodeBody reads a bounded JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Newf(apperr.InvalidInput, "request body exceeds %d bytes", maxErr.Limit)
		}
		return apperr.Wrap(apperr.InvalidInput, "malformed request body", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":       "repolens",
		"uptime":        time.Since(s.started).Round(time.Second).String(),
		"ai_configured": s.chat.Configured(),
		"cache":         s.orch.CacheStats(),
	})
}

type analyzeRequest struct {
	RepoURL string `json:"repo_url"`
}

type analyzeResponse struct {
	Success   bool             `json:"success"`
	Analysis  *analyzer.Report `json:"analysis"`
	RepoURL   string           `json:"repo_url"`
	Timestamp string           `json:"timestamp"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.RepoURL == "" {
		writeError(w, r, apperr.New(apperr.InvalidInput, "repo_url is required"))
		return
	}

	report, err := s.orch.GetAnalysis(r.Context(), req.RepoURL)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:   true,
		Analysis:  report,
		RepoURL:   report.RawData.RepoURL,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

type chatRequest struct {
	Question     string           `json:"question"`
	AnalysisData *analyzer.Report `json:"analysis_data"`
	APIKey       string           `json:"api_key"`
}

// adapterFor resolves the chat adapter for a request. A caller-supplied
// key takes precedence over the server's configured provider.
func (s *Server) adapterFor(apiKey string) (*chat.Adapter, error) {
	if apiKey == "" {
		return s.chat, nil
	}
	adapter, err := s.adapterForKey(apiKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.AIUnavailable, "AI provider setup failed", err)
	}
	return adapter, nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	adapter, err := s.adapterFor(req.APIKey)
	if err != nil {
		writeError(w, r, err)
		return
	}

	answer, err := adapter.Ask(r.Context(), req.AnalysisData, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": answer})
}

type suggestionsRequest struct {
	AnalysisData *analyzer.Report `json:"analysis_data"`
	APIKey       string           `json:"api_key"`
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	adapter, err := s.adapterFor(req.APIKey)
	if err != nil {
		writeError(w, r, err)
		return
	}

	suggestions, err := adapter.Suggest(r.Context(), req.AnalysisData)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

type exportRequest struct {
	AnalysisData *analyzer.Report `json:"analysis_data"`
	Format       string           `json:"format"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.AnalysisData == nil {
		writeError(w, r, apperr.New(apperr.InvalidInput, "analysis_data is required"))
		return
	}

	formatter, err := export.Get(req.Format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Format into a buffer first so a late failure still yields a clean
	// error response instead of a half-written body.
	var buf bytes.Buffer
	if err := formatter.Format(req.AnalysisData, &buf); err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("analysis_%s.%s",
		time.Now().UTC().Format("20060102_150405"), formatter.Extension())
	w.Header().Set("Content-Type", formatter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := io.Copy(w, &buf); err != nil {
		// The status line is already out; nothing left to do but log.
		slog.Error("write export body", "error", err)
	}
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.CacheStats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.orch.ClearCache()
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}
