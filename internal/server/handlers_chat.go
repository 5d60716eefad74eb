package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/ai-workspace/internal/gateway"
	"github.com/jonathan/ai-workspace/internal/provider"
	"github.com/jonathan/ai-workspace/internal/types"
)

// handleChat serves POST /api/chat. The result is always 200 with a body
// whose success flag tells the story; vendor and configuration failures are
// payload, not transport errors.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestUser(w, r)
	if !ok {
		return
	}

	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		verr := &ErrValidation{Field: "messages", Message: err.Error()}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	hint := gateway.Hint{
		Model: req.Model,
		Task:  gateway.TaskType(req.Task),
	}
	if req.Provider != "" {
		id, err := provider.Parse(req.Provider)
		if err != nil {
			perr := &ErrUnknownProvider{Name: req.Provider}
			s.errorResponse(w, HTTPStatus(perr), perr.Error())
			return
		}
		hint.Provider = id
	}

	res := s.gate.Invoke(r.Context(), userID, req.Messages, hint, req.Options)
	s.jsonResponse(w, http.StatusOK, res)
}

// handleListModels serves GET /api/models: the supported model lists for
// every provider the user has configured.
func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestUser(w, r)
	if !ok {
		return
	}

	models, err := s.gate.ListAvailableModels(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"models": models})
}
