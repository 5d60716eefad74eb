package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/ai-workspace/internal/provider"
)

// Hint narrows how a chat call is served. Provider and Model are optional;
// when both are set they are used as-is, bypassing the selection policy.
// Task biases selection when the policy runs.
type Hint struct {
	Provider provider.ID
	Model    string
	Task     TaskType
}

// Service is the unified invocation service: the single entry point through
// which every caller reaches a vendor. It never throws past its own
// boundary; every outcome, including configuration errors, comes back as a
// Result with Success false.
type Service struct {
	registry   *provider.Registry
	creds      CredentialSource
	policy     *Policy
	classifier *Classifier
	modules    Modules
}

// New builds the service. Modules are wired afterwards via SetModules
// because they call back into the service themselves.
func New(registry *provider.Registry, creds CredentialSource, policy *Policy, classifier *Classifier) *Service {
	return &Service{
		registry:   registry,
		creds:      creds,
		policy:     policy,
		classifier: classifier,
	}
}

// SetModules attaches the redirect targets. With no modules attached the
// classifier step is skipped entirely and every request is served as chat.
func (s *Service) SetModules(m Modules) {
	s.modules = m
}

// Invoke serves one chat call.
//
// Unless the caller opts out, the latest user message is classified first;
// a non-general verdict short-circuits to the matching module and no
// provider adapter is touched. Otherwise the hint is resolved to a
// (provider, model) pair, the user's credential is checked before any
// network call, the model is checked against the provider's supported list,
// and the matching adapter is dispatched.
func (s *Service) Invoke(ctx context.Context, userID uuid.UUID, messages []provider.ChatMessage, hint Hint, opts provider.Options) provider.Result {
	if len(messages) == 0 {
		return configFailure(hint.Provider, "", fmt.Errorf("no messages provided"))
	}

	if !opts.SkipIntentAnalysis && s.modules != nil {
		if res, redirected := s.redirect(ctx, userID, messages); redirected {
			return res
		}
	}

	creds, err := s.creds.Credentials(ctx, userID)
	if err != nil {
		return configFailure(hint.Provider, hint.Model, fmt.Errorf("load credentials: %w", err))
	}

	id := hint.Provider
	model := hint.Model
	if id == "" || model == "" {
		selected, selectedModel, err := s.policy.Select(hint.Task, creds, hint.Provider)
		if err != nil {
			return configFailure(hint.Provider, hint.Model, err)
		}
		id = selected
		if model == "" {
			model = selectedModel
		}
	}

	model, err = resolveModel(id, model)
	if err != nil {
		return configFailure(id, hint.Model, err)
	}

	cred := creds[id]
	if !cred.Configured() {
		return configFailure(id, model, fmt.Errorf("%s key not configured", id))
	}

	adapter, err := s.registry.Adapter(id)
	if err != nil {
		return configFailure(id, model, err)
	}

	res := adapter.Send(ctx, messages, model, cred, opts)
	res.Provider = id
	return res
}

// redirect runs the intent classifier over the latest user message and, on
// a non-general verdict, hands the call to the matching module. Module
// failures pass through as the Result, not swallowed.
func (s *Service) redirect(ctx context.Context, userID uuid.UUID, messages []provider.ChatMessage) (provider.Result, bool) {
	latest := latestUserMessage(messages)
	if latest == "" {
		return provider.Result{}, false
	}

	switch s.classifier.Classify(latest) {
	case IntentContentGeneration:
		return s.modules.GenerateContent(ctx, userID, latest), true
	case IntentDataAnalysis:
		return s.modules.AnalyzeData(ctx, userID, latest), true
	case IntentMaterialSearch:
		return s.modules.SearchMaterial(ctx, userID, latest), true
	default:
		return provider.Result{}, false
	}
}

// ListAvailableModels returns the supported model list for every provider
// the user holds a usable credential for. Used to populate the model picker.
func (s *Service) ListAvailableModels(ctx context.Context, userID uuid.UUID) (map[provider.ID][]string, error) {
	creds, err := s.creds.Credentials(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	models := make(map[provider.ID][]string)
	for _, id := range creds.Configured() {
		if desc, ok := provider.Describe(id); ok {
			models[id] = append([]string(nil), desc.Models...)
		}
	}
	return models, nil
}

func latestUserMessage(messages []provider.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == provider.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func configFailure(id provider.ID, model string, err error) provider.Result {
	return provider.Result{
		Success:  false,
		Provider: id,
		Model:    model,
		Error:    err.Error(),
	}
}
