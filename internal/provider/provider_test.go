package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KnownProviders(t *testing.T) {
	for _, id := range All() {
		parsed, err := Parse(string(id))
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}
}

func TestParse_NormalizesCaseAndWhitespace(t *testing.T) {
	parsed, err := Parse("  OpenAI ")
	require.NoError(t, err)
	assert.Equal(t, OpenAI, parsed)
}

func TestParse_UnknownProvider(t *testing.T) {
	_, err := Parse("grok")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestDescriptors_EveryProviderHasOne(t *testing.T) {
	for _, id := range All() {
		desc, ok := Describe(id)
		require.True(t, ok, "missing descriptor for %s", id)
		assert.Equal(t, id, desc.ID)
		assert.NotEmpty(t, desc.Name)
		assert.NotEmpty(t, desc.BaseURL)
		assert.NotEmpty(t, desc.Models)
		assert.True(t, desc.SupportsModel(desc.DefaultModel),
			"default model of %s must be in its supported list", id)
	}
}

func TestDescriptor_SupportsModel(t *testing.T) {
	desc, _ := Describe(DeepSeek)
	assert.True(t, desc.SupportsModel("deepseek-chat"))
	assert.False(t, desc.SupportsModel("gpt-4o"))
}

func TestCredentialSet_Configured(t *testing.T) {
	set := CredentialSet{
		Kimi:   {Key: "sk-kimi"},
		OpenAI: {Key: "   "},
		Baidu:  {Key: "ak", Secret: "sk"},
	}
	assert.Equal(t, []ID{Baidu, Kimi}, set.Configured())
}

func TestOptions_Defaults(t *testing.T) {
	var opts Options
	assert.InDelta(t, 0.7, opts.TemperatureValue(), 1e-9)
	assert.Equal(t, 2000, opts.MaxTokensValue())

	temp := 0.2
	max := 64
	opts = Options{Temperature: &temp, MaxTokens: &max}
	assert.InDelta(t, 0.2, opts.TemperatureValue(), 1e-9)
	assert.Equal(t, 64, opts.MaxTokensValue())
}

func TestRegistry_ExactlyOneAdapterPerProvider(t *testing.T) {
	reg := NewRegistry()
	for _, id := range All() {
		adapter, err := reg.Adapter(id)
		require.NoError(t, err, "provider %s has no adapter", id)
		assert.Equal(t, id, adapter.ID())
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	reg := NewCustomRegistry()
	_, err := reg.Adapter(OpenAI)
	assert.Error(t, err)
}
