package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("modules.json", "content-generation")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "{{.Prompt}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("modules.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat_ReplacesPlaceholders(t *testing.T) {
	out := Format("ask: {{.Query}} ({{.Query}})", map[string]string{"Query": "销量"})
	assert.Equal(t, "ask: 销量 (销量)", out)
}

func TestFormat_UnknownPlaceholderLeftAlone(t *testing.T) {
	out := Format("ask: {{.Other}}", map[string]string{"Query": "x"})
	assert.Equal(t, "ask: {{.Other}}", out)
}
