// Package gateway presents seven heterogeneous AI vendors to the rest of
// the application as one uniform operation: send these messages, get this
// answer. It owns provider selection, intent-based redirection, credential
// gating and credential validation. Nothing in this package writes to
// storage; credentials are read through CredentialSource only.
package gateway

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/ai-workspace/internal/provider"
)

// CredentialSource reads a user's stored per-provider secrets. The settings
// store owns the data; the gateway never mutates it.
type CredentialSource interface {
	Credentials(ctx context.Context, userID uuid.UUID) (provider.CredentialSet, error)
}

// Modules are the subsystems a classified request can be redirected to.
// Each returns a finished Result; the provider adapters are never touched
// on a redirected path from the gateway's point of view.
type Modules interface {
	GenerateContent(ctx context.Context, userID uuid.UUID, prompt string) provider.Result
	AnalyzeData(ctx context.Context, userID uuid.UUID, query string) provider.Result
	SearchMaterial(ctx context.Context, userID uuid.UUID, query string) provider.Result
}
