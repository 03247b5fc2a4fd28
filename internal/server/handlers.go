package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cloudplot/cloudplot/pkg/errors"
	"github.com/cloudplot/cloudplot/pkg/icons"
	"github.com/cloudplot/cloudplot/pkg/model"
	"github.com/cloudplot/cloudplot/pkg/pipeline"
	"github.com/cloudplot/cloudplot/pkg/store"
	"github.com/cloudplot/cloudplot/pkg/validate"
)

// maxBodyBytes caps request bodies to keep hostile payloads out of memory.
const maxBodyBytes = 8 << 20 // 8 MiB

// =============================================================================
// RENDER / VALIDATE
// =============================================================================

// renderRequest is the POST /api/v1/render body.
type renderRequest struct {
	Model     model.ArchitectureModel `json:"model"`
	Formats   []string                `json:"formats,omitempty"`
	Direction string                  `json:"direction,omitempty"`
	Styled    bool                    `json:"styled,omitempty"`
	Title     string                  `json:"title,omitempty"`
}

// renderResponse is the render result envelope. Artifacts are returned as
// strings because every format, SVG included, is text.
type renderResponse struct {
	IsValid   bool               `json:"is_valid"`
	Warnings  []validate.Warning `json:"warnings"`
	ModelHash string             `json:"model_hash"`
	Artifacts map[string]string  `json:"artifacts"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Model, pipeline.Options{
		Formats:   req.Formats,
		Direction: req.Direction,
		Styled:    req.Styled,
		Title:     req.Title,
		Logger:    s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, renderResult(result))
}

func renderResult(result *pipeline.Result) renderResponse {
	artifacts := make(map[string]string, len(result.Artifacts))
	for format, data := range result.Artifacts {
		artifacts[format] = string(data)
	}
	warnings := result.Warnings
	if warnings == nil {
		warnings = []validate.Warning{}
	}
	return renderResponse{
		IsValid:   result.IsValid,
		Warnings:  warnings,
		ModelHash: result.ModelHash,
		Artifacts: artifacts,
	}
}

// validateRequest is the POST /api/v1/validate body.
type validateRequest struct {
	Model model.ArchitectureModel `json:"model"`
}

type validateResponse struct {
	IsValid  bool                    `json:"is_valid"`
	Warnings []validate.Warning      `json:"warnings"`
	Model    model.ArchitectureModel `json:"model"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !s.decode(w, r, &req) {
		return
	}

	res := validate.Sanitize(req.Model)
	warnings := res.Warnings
	if warnings == nil {
		warnings = []validate.Warning{}
	}
	writeJSON(w, http.StatusOK, validateResponse{
		IsValid:  res.IsValid,
		Warnings: warnings,
		Model:    res.Model,
	})
}

// =============================================================================
// ICONS
// =============================================================================

// iconResponse is the style DTO for icon endpoints.
type iconResponse struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Asset    string `json:"asset"`
	Symbol   string `json:"symbol"`
	Class    string `json:"class"`
	Known    bool   `json:"known"`
}

func iconDTO(nodeType string) iconResponse {
	style := icons.Resolve(nodeType)
	return iconResponse{
		Type:     strings.ToLower(nodeType),
		Category: string(style.Category),
		Color:    style.DefaultColor,
		Asset:    style.AssetPath,
		Symbol:   style.Symbol,
		Class:    style.Class,
		Known:    icons.Known(nodeType),
	}
}

func (s *Server) handleListIcons(w http.ResponseWriter, _ *http.Request) {
	types := icons.Types()
	sort.Strings(types)

	out := make([]iconResponse, 0, len(types))
	for _, t := range types {
		out = append(out, iconDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetIcon(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, iconDTO(chi.URLParam(r, "type")))
}

// =============================================================================
// DIAGRAMS
// =============================================================================

// diagramRequest is the create/update body for saved diagrams.
type diagramRequest struct {
	Name  string                  `json:"name"`
	Model model.ArchitectureModel `json:"model"`
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidOptions, "diagram name is required"))
		return
	}

	d := store.NewDiagram(req.Name, req.Model)
	if err := s.store.Create(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	diagrams, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if diagrams == nil {
		diagrams = []*store.Diagram{}
	}
	writeJSON(w, http.StatusOK, diagrams)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleUpdateDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if !s.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Name != "" {
		d.Name = req.Name
	}
	d.Model = req.Model
	if err := s.store.Update(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRenderDiagram renders a saved diagram. Render options come from
// query parameters: format (repeatable), direction, styled.
func (s *Server) handleRenderDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	result, err := s.runner.Execute(r.Context(), d.Model, pipeline.Options{
		Formats:   q["format"],
		Direction: q.Get("direction"),
		Styled:    q.Get("styled") == "true",
		Title:     d.Name,
		Logger:    s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderResult(result))
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads a JSON body into v, replying with a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidModel, err, "failed to decode request body"))
		return false
	}
	return true
}
