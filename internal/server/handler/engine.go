// Package handler provides the HTTP handlers that expose the engine façade
// over the wire.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/codelens/internal/cerr"
	"github.com/sevigo/codelens/internal/engine"
	"github.com/sevigo/codelens/internal/prompt"
	"github.com/sevigo/codelens/internal/rulesource"
	"github.com/sevigo/codelens/internal/scan"
)

// EngineHandler adapts engine.Engine to HTTP. Each handler is a thin JSON
// shim; every analysis decision stays in the engine.
type EngineHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewEngineHandler creates the handler set for the API routes.
func NewEngineHandler(eng *engine.Engine, logger *slog.Logger) *EngineHandler {
	return &EngineHandler{engine: eng, logger: logger}
}

type scanRequest struct {
	Root         string   `json:"root"`
	Files        []string `json:"files,omitempty"`
	IncludeGlobs []string `json:"include_globs,omitempty"`
	ExcludeGlobs []string `json:"exclude_globs,omitempty"`
	MaxIssues    int      `json:"max_issues,omitempty"`
}

// Scan runs a scan over a root path or explicit file list.
func (h *EngineHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.engine.Scan(r.Context(), scan.Config{
		Root:         req.Root,
		Files:        req.Files,
		IncludeGlobs: req.IncludeGlobs,
		ExcludeGlobs: req.ExcludeGlobs,
		MaxIssues:    req.MaxIssues,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type analyzeDiffRequest struct {
	Root string `json:"root"`
	Diff string `json:"diff"`
}

type analyzeDiffResponse struct {
	Diff    any `json:"diff"`
	Summary any `json:"summary"`
}

// AnalyzeDiff parses a diff and returns the structural summary.
func (h *EngineHandler) AnalyzeDiff(w http.ResponseWriter, r *http.Request) {
	var req analyzeDiffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	diff, sum, err := h.engine.AnalyzeDiff(r.Context(), req.Root, []byte(req.Diff))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, analyzeDiffResponse{Diff: diff, Summary: sum})
}

type updateRulesRequest struct {
	Backup bool `json:"backup"`
	Verify bool `json:"verify"`
}

// UpdateRules updates the named rule source.
func (h *EngineHandler) UpdateRules(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")

	req := updateRulesRequest{Backup: true, Verify: true}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	meta, err := h.engine.UpdateRules(r.Context(), source, rulesource.UpdateArgs{
		Backup: req.Backup,
		Verify: req.Verify,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, meta)
}

type assemblePromptRequest struct {
	WorkItems   []string `json:"work_items,omitempty"`
	Diff        string   `json:"diff,omitempty"`
	MaxFindings int      `json:"max_findings,omitempty"`
}

// AssemblePrompt analyses the posted diff and returns the prompt bundle.
func (h *EngineHandler) AssemblePrompt(w http.ResponseWriter, r *http.Request) {
	var req assemblePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	in := prompt.Inputs{
		WorkItems:   req.WorkItems,
		DiffText:    req.Diff,
		MaxFindings: req.MaxFindings,
	}
	if req.Diff != "" {
		_, sum, err := h.engine.AnalyzeDiff(r.Context(), ".", []byte(req.Diff))
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		in.Summary = sum
	}

	bundle, err := h.engine.AssemblePrompt(r.Context(), in)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"prompt": bundle})
}

func (h *EngineHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *EngineHandler) writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var ce *cerr.Error
	if errors.As(err, &ce) {
		switch ce.Kind {
		case cerr.ConfigInvalid, cerr.ParseFailed:
			status = http.StatusBadRequest
		case cerr.NetworkFailed:
			status = http.StatusBadGateway
		case cerr.Cancelled:
			status = 499 // client closed request
		}
	}
	h.logger.Error("request failed", "error", err)
	http.Error(w, err.Error(), status)
}
