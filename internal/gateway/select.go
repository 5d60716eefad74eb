package gateway

import (
	"errors"
	"fmt"

	"github.com/jonathan/ai-workspace/internal/provider"
)

// TaskType is an abstract request category used to bias provider selection.
type TaskType string

// Task types recognized by the default preference table. Unknown task types
// fall through to enumeration-order selection.
const (
	TaskGeneral        TaskType = "general"
	TaskChineseContent TaskType = "chinese_content"
	TaskReasoning      TaskType = "reasoning"
	TaskDataAnalysis   TaskType = "data_analysis"
)

// ErrNoProviderConfigured is returned when the user has no usable credential
// for any provider. It is a fatal, user-actionable condition, never retried.
var ErrNoProviderConfigured = errors.New("no AI service configured: add an API key in settings first")

// Policy decides which provider and model serve a task, given the user's
// configured credentials. It is a pure function of the preference table and
// the configured set: identical inputs always produce identical output.
type Policy struct {
	preferences map[TaskType][]provider.ID
}

// DefaultPreferences is the per-task ordered provider preference table.
func DefaultPreferences() map[TaskType][]provider.ID {
	return map[TaskType][]provider.ID{
		TaskChineseContent: {provider.DeepSeek, provider.Kimi, provider.Baidu, provider.Zhipu},
		TaskReasoning:      {provider.OpenAI, provider.Claude, provider.DeepSeek},
		TaskDataAnalysis:   {provider.OpenAI, provider.DeepSeek, provider.Claude, provider.Gemini},
		TaskGeneral:        {provider.OpenAI, provider.Claude, provider.Gemini, provider.DeepSeek},
	}
}

// NewPolicy builds a policy with the default preference table.
func NewPolicy() *Policy {
	return NewPolicyWithPreferences(DefaultPreferences())
}

// NewPolicyWithPreferences builds a policy from an explicit table.
func NewPolicyWithPreferences(prefs map[TaskType][]provider.ID) *Policy {
	return &Policy{preferences: prefs}
}

// Select resolves a (provider, model) pair for the task.
//
// Explicit caller intent always wins: a preferred provider with a configured
// credential is returned immediately with its default model. Otherwise the
// first configured provider in the task's preference list is used, then the
// first configured provider in enumeration order. With nothing configured at
// all, ErrNoProviderConfigured is returned.
func (p *Policy) Select(task TaskType, creds provider.CredentialSet, preferred provider.ID) (provider.ID, string, error) {
	if preferred != "" && creds[preferred].Configured() {
		return preferred, defaultModel(preferred), nil
	}

	for _, id := range p.preferences[task] {
		if creds[id].Configured() {
			return id, defaultModel(id), nil
		}
	}

	for _, id := range provider.All() {
		if creds[id].Configured() {
			return id, defaultModel(id), nil
		}
	}

	return "", "", ErrNoProviderConfigured
}

func defaultModel(id provider.ID) string {
	desc, ok := provider.Describe(id)
	if !ok {
		return ""
	}
	return desc.DefaultModel
}

// resolveModel validates an explicit model against the provider's supported
// list before any network activity.
func resolveModel(id provider.ID, model string) (string, error) {
	desc, ok := provider.Describe(id)
	if !ok {
		return "", fmt.Errorf("unknown provider %q", id)
	}
	if model == "" {
		return desc.DefaultModel, nil
	}
	if !desc.SupportsModel(model) {
		return "", fmt.Errorf("model %q is not supported by %s", model, desc.Name)
	}
	return model, nil
}
