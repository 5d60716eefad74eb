package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ai-workspace/internal/provider"
)

func credsFor(ids ...provider.ID) provider.CredentialSet {
	set := provider.CredentialSet{}
	for _, id := range ids {
		set[id] = provider.Credential{Key: "key-" + string(id), Secret: "secret-" + string(id)}
	}
	return set
}

func TestSelect_PreferredProviderWins(t *testing.T) {
	policy := NewPolicy()
	id, model, err := policy.Select(TaskChineseContent, credsFor(provider.DeepSeek, provider.Claude), provider.Claude)
	require.NoError(t, err)
	assert.Equal(t, provider.Claude, id)
	assert.Equal(t, "claude-3-5-sonnet-20241022", model)
}

func TestSelect_PreferredProviderIgnoredWhenUnconfigured(t *testing.T) {
	policy := NewPolicy()
	id, _, err := policy.Select(TaskChineseContent, credsFor(provider.DeepSeek), provider.Claude)
	require.NoError(t, err)
	assert.Equal(t, provider.DeepSeek, id)
}

func TestSelect_TaskPreferenceOrder(t *testing.T) {
	policy := NewPolicy()
	id, model, err := policy.Select(TaskReasoning, credsFor(provider.Claude, provider.DeepSeek), "")
	require.NoError(t, err)
	// openai is first in the reasoning list but not configured.
	assert.Equal(t, provider.Claude, id)
	assert.Equal(t, "claude-3-5-sonnet-20241022", model)
}

func TestSelect_LaterPreferenceEntryUsedWhenOnlyOneConfigured(t *testing.T) {
	policy := NewPolicy()
	// chinese_content prefers [deepseek kimi baidu zhipu]; only kimi is
	// configured, so kimi must be picked even though it is not first.
	id, model, err := policy.Select(TaskChineseContent, credsFor(provider.Kimi), "")
	require.NoError(t, err)
	assert.Equal(t, provider.Kimi, id)
	assert.Equal(t, "moonshot-v1-8k", model)
}

func TestSelect_EnumerationOrderFallbackForUnknownTask(t *testing.T) {
	policy := NewPolicy()
	id, _, err := policy.Select(TaskType("translation"), credsFor(provider.Zhipu, provider.Gemini), "")
	require.NoError(t, err)
	// gemini precedes zhipu in enumeration order.
	assert.Equal(t, provider.Gemini, id)
}

func TestSelect_NoProviderConfigured(t *testing.T) {
	policy := NewPolicy()
	_, _, err := policy.Select(TaskGeneral, provider.CredentialSet{}, "")
	assert.ErrorIs(t, err, ErrNoProviderConfigured)
}

func TestSelect_Deterministic(t *testing.T) {
	policy := NewPolicy()
	creds := credsFor(provider.Kimi, provider.Zhipu, provider.Baidu)
	firstID, firstModel, err := policy.Select(TaskChineseContent, creds, "")
	require.NoError(t, err)
	for range 20 {
		id, model, err := policy.Select(TaskChineseContent, creds, "")
		require.NoError(t, err)
		assert.Equal(t, firstID, id)
		assert.Equal(t, firstModel, model)
	}
}
