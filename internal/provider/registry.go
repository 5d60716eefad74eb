package provider

import (
	"fmt"
	"net/http"
	"time"
)

// SendTimeout bounds every adapter's outbound request.
// Enforced by the HTTP client, no retry; a hung vendor call returns a failed
// Result after the timeout rather than propagating cancellation upward.
const SendTimeout = 30 * time.Second

// Registry maps each provider ID to its single adapter. Exactly one adapter
// exists per ID; dispatch is a lookup, never a vendor switch.
type Registry struct {
	adapters map[ID]Adapter
}

// NewRegistry builds the registry with all seven vendor adapters wired to a
// shared HTTP client carrying the fixed send timeout.
func NewRegistry() *Registry {
	client := &http.Client{Timeout: SendTimeout}
	return NewCustomRegistry(
		newOpenAICompat(OpenAI, client),
		newClaudeAdapter(client),
		newGeminiAdapter(SendTimeout),
		newOpenAICompat(DeepSeek, client),
		newOpenAICompat(Kimi, client),
		newBaiduAdapter(client),
		newOpenAICompat(Zhipu, client),
	)
}

// NewCustomRegistry builds a registry from explicit adapters. Used by tests
// and by callers that stub out vendors.
func NewCustomRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[ID]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.ID()] = a
	}
	return r
}

// Adapter returns the adapter registered for the provider.
func (r *Registry) Adapter(id ID) (Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for provider %q", id)
	}
	return a, nil
}
