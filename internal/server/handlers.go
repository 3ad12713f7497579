package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/1mgroot/Tracil-sub000/pkg/buildinfo"
	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
	"github.com/1mgroot/Tracil-sub000/pkg/pipeline"
	"github.com/1mgroot/Tracil-sub000/pkg/store"
)

// defaultListLimit bounds GET /snapshots when no limit is given.
const defaultListLimit = 20

// =============================================================================
// Request / Response Types
// =============================================================================

// analyzeRequest is the POST /api/v1/analyze body.
type analyzeRequest struct {
	Dataset  string `json:"dataset"`
	Variable string `json:"variable"`
	Strategy string `json:"strategy,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`
}

// analyzeResponse is the POST /api/v1/analyze reply: the persisted snapshot
// id plus everything a viewer needs to draw the lineage.
type analyzeResponse struct {
	ID        string             `json:"id"`
	GraphHash string             `json:"graph_hash"`
	Graph     lineage.Graph      `json:"graph"`
	Layout    layout.Layout      `json:"layout"`
	Stats     pipeline.Stats     `json:"stats"`
	Cached    pipeline.CacheInfo `json:"cached"`
}

// snapshotSummary is the GET /api/v1/snapshots list entry. The full graph
// and layout stay behind the per-id endpoint.
type snapshotSummary struct {
	ID        string `json:"id"`
	Dataset   string `json:"dataset"`
	Variable  string `json:"variable"`
	Summary   string `json:"summary,omitempty"`
	NodeCount int    `json:"node_count"`
	CreatedAt string `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleAnalyze fetches lineage for a variable, runs the pipeline, persists
// the result as a snapshot, and returns it.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Dataset:  req.Dataset,
		Variable: req.Variable,
		Strategy: req.Strategy,
		Refresh:  req.Refresh,
		Backend:  s.cfg.Upstream.URL,
		Logger:   s.logger,
	}

	result, err := s.runner.Analyze(r.Context(), s.analyzer, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	snap := store.NewSnapshot(opts.Dataset, opts.Variable, result.Graph, &result.Layout)
	if err := s.store.Save(r.Context(), snap); err != nil {
		s.writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, analyzeResponse{
		ID:        snap.ID,
		GraphHash: result.GraphHash,
		Graph:     result.Graph,
		Layout:    result.Layout,
		Stats:     result.Stats,
		Cached:    result.CacheInfo,
	})
}

// handleLayout lays out a lineage document posted by the caller. The body is
// the graph; strategy and output format come from query parameters.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read request body"))
		return
	}

	g, err := lineage.UnmarshalGraph(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	opts := pipeline.Options{
		Strategy:   q.Get("strategy"),
		Formats:    []string{format},
		EdgeLabels: q.Get("edge_labels") == "true",
		Compact:    q.Get("compact") == "true",
		Logger:     s.logger,
	}

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	snaps, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	summaries := make([]snapshotSummary, 0, len(snaps))
	for _, snap := range snaps {
		summaries = append(summaries, snapshotSummary{
			ID:        snap.ID,
			Dataset:   snap.Dataset,
			Variable:  snap.Variable,
			Summary:   snap.Summary,
			NodeCount: len(snap.Graph.Nodes),
			CreatedAt: snap.CreatedAt.Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"snapshots": summaries})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to decode request body")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "application/json"
	}
}

// writeError maps structured error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	respondJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}

func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph, errors.ErrCodeInvalidDataset,
		errors.ErrCodeInvalidVariable, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStrategy,
		errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeSnapshotNotFound, errors.ErrCodeVariableNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeNetwork, errors.ErrCodeUpstream:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
