// Package types defines the request and response shapes of the workspace
// HTTP API, with validation rules attached where a handler needs them.
package types

import (
	"github.com/go-playground/validator/v10"

	"github.com/jonathan/ai-workspace/internal/provider"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []provider.ChatMessage `json:"messages" validate:"required,min=1,dive"`
	Provider string                 `json:"provider,omitempty"`
	Model    string                 `json:"model,omitempty"`
	Task     string                 `json:"task,omitempty"`
	Options  provider.Options       `json:"options"`
}

// CredentialUpdateRequest is the body of PUT /api/settings/credentials/{provider}.
type CredentialUpdateRequest struct {
	Key    string `json:"key" validate:"required,min=1"`
	Secret string `json:"secret,omitempty"`
}

// CredentialTestRequest is the body of POST /api/settings/credentials/{provider}/test.
// Key and Secret are optional: with both empty the stored credential is probed.
type CredentialTestRequest struct {
	Key    string `json:"key,omitempty"`
	Secret string `json:"secret,omitempty"`
}

// ModuleRequest is the shared body of the direct module endpoints
// (content generation, data analysis, material search).
type ModuleRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1"`
}

// CredentialStatus describes one configured provider in settings listings.
// Keys are masked before they leave the server.
type CredentialStatus struct {
	Provider  string `json:"provider"`
	Name      string `json:"name"`
	MaskedKey string `json:"masked_key"`
	HasSecret bool   `json:"has_secret"`
}

// ValidationResult is the response of the credential test endpoint.
type ValidationResult struct {
	Provider string `json:"provider"`
	Valid    bool   `json:"valid"`
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the CredentialUpdateRequest using the validator.
func (r *CredentialUpdateRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ModuleRequest using the validator.
func (r *ModuleRequest) Validate() error {
	return validator.New().Struct(r)
}
