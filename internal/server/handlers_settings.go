package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/ai-workspace/internal/provider"
	"github.com/jonathan/ai-workspace/internal/types"
)

// handleListCredentials serves GET /api/settings/credentials. Keys are
// masked; raw secrets never leave the server once stored.
func (s *Server) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestUser(w, r)
	if !ok {
		return
	}

	creds, err := s.store.Credentials(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	statuses := make([]types.CredentialStatus, 0, len(creds))
	for _, id := range creds.Configured() {
		desc, _ := provider.Describe(id)
		cred := creds[id]
		statuses = append(statuses, types.CredentialStatus{
			Provider:  string(id),
			Name:      desc.Name,
			MaskedKey: maskKey(cred.Key),
			HasSecret: cred.Secret != "",
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"credentials": statuses})
}

// handleSaveCredential serves PUT /api/settings/credentials/{provider}.
//
// The save is acknowledged as soon as the row is written. The live
// credential check runs in a detached goroutine with its own deadline and
// only logs its verdict; a slow or failing vendor never delays or fails
// the save.
func (s *Server) handleSaveCredential(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathProvider(w, r)
	if !ok {
		return
	}

	var req types.CredentialUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		verr := &ErrValidation{Field: "key", Message: err.Error()}
		s.errorResponse(w, HTTPStatus(verr), verr.Error())
		return
	}

	cred := provider.Credential{
		Key:    strings.TrimSpace(req.Key),
		Secret: strings.TrimSpace(req.Secret),
	}
	if err := s.store.UpsertCredential(r.Context(), userID, id, cred); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.validateTimeout)
		defer cancel()
		if s.prober.Validate(ctx, id, cred.Key, cred.Secret) {
			log.Printf("credential check passed: provider=%s user=%s", id, userID)
		} else {
			log.Printf("credential check failed: provider=%s user=%s", id, userID)
		}
	}()

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"provider": string(id),
		"status":   "saved",
	})
}

// handleDeleteCredential serves DELETE /api/settings/credentials/{provider}.
func (s *Server) handleDeleteCredential(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathProvider(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteCredential(r.Context(), userID, id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"provider": string(id),
		"status":   "deleted",
	})
}

// handleTestCredential serves POST /api/settings/credentials/{provider}/test.
// With a key in the body that key is probed; with an empty body the stored
// credential is probed instead. This call blocks on the probe, unlike the
// check that follows a save.
func (s *Server) handleTestCredential(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathProvider(w, r)
	if !ok {
		return
	}

	var req types.CredentialTestRequest
	// An empty body means "test what is stored".
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	key, secret := strings.TrimSpace(req.Key), strings.TrimSpace(req.Secret)
	if key == "" {
		creds, err := s.store.Credentials(r.Context(), userID)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		stored := creds[id]
		if !stored.Configured() {
			cerr := &ErrCredentialNotFound{Provider: string(id)}
			s.errorResponse(w, HTTPStatus(cerr), cerr.Error())
			return
		}
		key, secret = stored.Key, stored.Secret
	}

	valid := s.prober.Validate(r.Context(), id, key, secret)
	s.jsonResponse(w, http.StatusOK, types.ValidationResult{
		Provider: string(id),
		Valid:    valid,
	})
}

// maskKey hides the middle of a key for settings listings. Short keys are
// fully masked.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
