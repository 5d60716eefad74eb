package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jonathan/ai-workspace/internal/provider"
)

// ProbeTimeout bounds every credential probe. Probes are cheap by design;
// a vendor that cannot answer in ten seconds is treated as unusable.
const ProbeTimeout = 10 * time.Second

// minKeyLength is the format floor applied before any live probe. Keys
// shorter than this are rejected without touching the network.
const minKeyLength = 10

// Validator confirms that a submitted credential is actually usable by
// issuing a cheap provider-specific probe. Validate always returns a plain
// boolean: every network, parse or vendor error folds into false.
type Validator struct {
	client *http.Client
}

// NewValidator builds a validator with the fixed probe timeout.
func NewValidator() *Validator {
	return &Validator{client: &http.Client{Timeout: ProbeTimeout}}
}

// Validate reports whether the credential works for the provider.
//
// Most vendors get an authenticated list-models call or a tiny chat ping.
// Baidu is valid only when both halves of the key pair pass the length
// check and the OAuth token exchange yields a token. Zhipu is a length
// check only; there is no live probe for it today.
func (v *Validator) Validate(ctx context.Context, id provider.ID, key, secret string) bool {
	key = strings.TrimSpace(key)
	secret = strings.TrimSpace(secret)

	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	switch id {
	case provider.OpenAI, provider.DeepSeek, provider.Kimi:
		return v.probeListModels(ctx, id, key)
	case provider.Claude:
		return v.probeClaude(ctx, key)
	case provider.Gemini:
		return probeGemini(ctx, key)
	case provider.Baidu:
		if len(key) < minKeyLength || len(secret) < minKeyLength {
			return false
		}
		desc, _ := provider.Describe(provider.Baidu)
		token, err := provider.ExchangeBaiduToken(ctx, v.client, desc.BaseURL, key, secret)
		return err == nil && token != ""
	case provider.Zhipu:
		// Format check only. Zhipu has no live probe yet; see DESIGN.md.
		return len(key) >= minKeyLength
	default:
		return false
	}
}

// ValidateAll probes every configured credential in the set concurrently.
// There is no ordering requirement between providers' probes.
func (v *Validator) ValidateAll(ctx context.Context, creds provider.CredentialSet) map[provider.ID]bool {
	results := make(map[provider.ID]bool, len(creds))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, id := range creds.Configured() {
		cred := creds[id]
		g.Go(func() error {
			ok := v.Validate(gCtx, id, cred.Key, cred.Secret)
			mu.Lock()
			results[id] = ok
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// probeListModels issues an authenticated GET /models; any 2xx means the
// key is usable.
func (v *Validator) probeListModels(ctx context.Context, id provider.ID, key string) bool {
	if key == "" {
		return false
	}
	desc, ok := provider.Describe(id)
	if !ok {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.BaseURL+"/models", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

// probeClaude sends a throwaway one-word prompt. Anthropic's error surface
// for a tiny probe is noisy, so only 401 and 403 count as definitely
// invalid; any other status is treated as valid.
func (v *Validator) probeClaude(ctx context.Context, key string) bool {
	if key == "" {
		return false
	}
	desc, _ := provider.Describe(provider.Claude)

	body, err := json.Marshal(map[string]any{
		"model":      desc.DefaultModel,
		"max_tokens": 10,
		"messages":   []map[string]string{{"role": "user", "content": "ping"}},
	})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, desc.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", key)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden
}

// probeGemini lists models through the SDK; a readable first page means the
// key is usable.
func probeGemini(ctx context.Context, key string) bool {
	if key == "" {
		return false
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return false
	}
	defer func() { _ = client.Close() }()

	_, err = client.ListModels(ctx).Next()
	return err == nil || err == iterator.Done
}
