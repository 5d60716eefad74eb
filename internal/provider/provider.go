// Package provider defines the closed set of supported AI vendors, the
// adapter contract for calling them, and the normalized result shape that
// every caller of the gateway sees. Vendor-specific response envelopes
// never leave this package.
package provider

import (
	"context"
	"fmt"
	"strings"
)

// ID identifies one supported AI vendor.
type ID string

// Supported vendors. The set is closed; adding a vendor means adding a
// descriptor and a registry entry, not editing a conditional.
const (
	OpenAI   ID = "openai"
	Claude   ID = "claude"
	Gemini   ID = "gemini"
	DeepSeek ID = "deepseek"
	Kimi     ID = "kimi"
	Baidu    ID = "baidu"
	Zhipu    ID = "zhipu"
)

// All returns every provider ID in enumeration order. The order is part of
// the selection contract: it is the final fallback when no task preference
// matches a configured provider.
func All() []ID {
	return []ID{OpenAI, Claude, Gemini, DeepSeek, Kimi, Baidu, Zhipu}
}

// Parse converts a user-supplied provider name into an ID.
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range All() {
		if id == known {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// Role is a chat message role.
type Role string

// Chat message roles, following the OpenAI-style convention. Adapters remap
// them where a vendor's schema differs (Gemini uses "model" for assistant).
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of a conversation. The gateway is stateless with
// respect to history: it receives the full message list on every call.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Credential holds a user's secret for one provider. Baidu pairs an API key
// with a secret key; every other vendor uses Key alone.
type Credential struct {
	Key    string `json:"key"`
	Secret string `json:"secret,omitempty"`
}

// Configured reports whether the credential carries a usable key.
func (c Credential) Configured() bool {
	return strings.TrimSpace(c.Key) != ""
}

// CredentialSet maps providers to a user's stored secrets. The gateway only
// reads it; writes happen exclusively through the settings path.
type CredentialSet map[ID]Credential

// Configured returns the providers with a usable credential, in enumeration
// order.
func (s CredentialSet) Configured() []ID {
	var ids []ID
	for _, id := range All() {
		if s[id].Configured() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Default generation options applied when the caller leaves them unset.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

// Options carries generation settings. Recognized fields are forwarded in
// each vendor's native form; Extra keys are passed through untouched where
// the vendor accepts arbitrary body fields.
type Options struct {
	Temperature        *float64       `json:"temperature,omitempty"`
	MaxTokens          *int           `json:"max_tokens,omitempty"`
	SkipIntentAnalysis bool           `json:"skip_intent_analysis,omitempty"`
	Extra              map[string]any `json:"extra,omitempty"`
}

// TemperatureValue returns the temperature, defaulting to 0.7.
func (o Options) TemperatureValue() float64 {
	if o.Temperature != nil {
		return *o.Temperature
	}
	return DefaultTemperature
}

// MaxTokensValue returns the response length cap, defaulting to 2000.
func (o Options) MaxTokensValue() int {
	if o.MaxTokens != nil {
		return *o.MaxTokens
	}
	return DefaultMaxTokens
}

// Result is the normalized invocation outcome. It is the only shape any
// caller outside the gateway ever sees. Tokens is always a non-negative
// integer: vendors that omit usage data get a heuristic estimate.
type Result struct {
	Success    bool   `json:"success"`
	Content    string `json:"content,omitempty"`
	Tokens     int    `json:"tokens"`
	Model      string `json:"model,omitempty"`
	Provider   ID     `json:"provider,omitempty"`
	ModuleUsed string `json:"module_used,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Failure builds a failed Result. Adapters fold every transport, HTTP and
// parse error into this shape instead of returning an error: callers branch
// on Success, they never unwrap.
func Failure(id ID, model string, err error) Result {
	return Result{
		Success:  false,
		Model:    model,
		Provider: id,
		Error:    err.Error(),
	}
}

// Adapter translates the gateway's uniform call into one vendor's wire
// format and back. Send never returns a Go error; failures come back as a
// Result with Success false.
type Adapter interface {
	ID() ID
	Send(ctx context.Context, messages []ChatMessage, model string, cred Credential, opts Options) Result
}
