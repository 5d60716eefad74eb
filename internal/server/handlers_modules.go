package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/ai-workspace/internal/provider"
	"github.com/jonathan/ai-workspace/internal/types"
)

// The direct module endpoints skip intent classification: the caller has
// already named the workflow, so the prompt goes straight to the module.

func (s *Server) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	s.serveModule(w, r, s.modules.GenerateContent)
}

func (s *Server) handleAnalyzeData(w http.ResponseWriter, r *http.Request) {
	s.serveModule(w, r, s.modules.AnalyzeData)
}

func (s *Server) handleSearchMaterial(w http.ResponseWriter, r *http.Request) {
	s.serveModule(w, r, s.modules.SearchMaterial)
}

func (s *Server) serveModule(w http.ResponseWriter, r *http.Request, run func(ctx context.Context, userID uuid.UUID, prompt string) provider.Result) {
	userID, ok := s.requestUser(w, r)
	if !ok {
		return
	}

	var req types.ModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		verr := &ErrValidation{Field: "prompt", Message: err.Error()}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, run(r.Context(), userID, req.Prompt))
}
