package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClaudeForTest(t *testing.T, handler http.HandlerFunc) *claudeAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &claudeAdapter{messagesURL: srv.URL + "/v1/messages", client: srv.Client()}
}

func TestClaude_Send_SplitsSystemAndSumsUsage(t *testing.T) {
	var gotBody map[string]any
	var gotKey, gotVersion string

	adapter := newClaudeForTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "claude-3-5-sonnet-20241022",
			"content": []map[string]any{{"type": "text", "text": "answer"}},
			"usage":   map[string]any{"input_tokens": 10, "output_tokens": 5},
		})
	})

	res := adapter.Send(context.Background(), []ChatMessage{
		{Role: RoleSystem, Content: "be terse"},
		{Role: RoleUser, Content: "hello"},
	}, "claude-3-5-sonnet-20241022", Credential{Key: "sk-ant"}, Options{})

	require.True(t, res.Success, "error: %s", res.Error)
	assert.Equal(t, "sk-ant", gotKey)
	assert.Equal(t, anthropicVersion, gotVersion)
	assert.Equal(t, "be terse", gotBody["system"])

	msgs := gotBody["messages"].([]any)
	require.Len(t, msgs, 1, "system message must not remain in the array")
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])

	assert.Equal(t, 15, res.Tokens)
	assert.Equal(t, "answer", res.Content)
}

func TestClaude_Send_VendorError(t *testing.T) {
	adapter := newClaudeForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "permission_error", "message": "key disabled"},
		})
	})

	res := adapter.Send(context.Background(),
		[]ChatMessage{{Role: RoleUser, Content: "hi"}},
		"claude-3-5-haiku-20241022", Credential{Key: "sk"}, Options{})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "key disabled")
}

func TestSplitSystem_JoinsMultipleSystemMessages(t *testing.T) {
	system, turns := splitSystem([]ChatMessage{
		{Role: RoleSystem, Content: "one"},
		{Role: RoleUser, Content: "q"},
		{Role: RoleSystem, Content: "two"},
		{Role: RoleAssistant, Content: "a"},
	})
	assert.Equal(t, "one\n\ntwo", system)
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, RoleAssistant, turns[1].Role)
}
