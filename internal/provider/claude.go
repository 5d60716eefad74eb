package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// anthropicVersion is the API version header Anthropic requires on every call.
const anthropicVersion = "2023-06-01"

// claudeAdapter speaks the Anthropic /v1/messages dialect: x-api-key auth,
// system prompts split out of the message array, and usage reported as
// separate input and output token counts.
type claudeAdapter struct {
	messagesURL string
	client      *http.Client
}

func newClaudeAdapter(client *http.Client) *claudeAdapter {
	return &claudeAdapter{
		messagesURL: descriptors[Claude].BaseURL + "/v1/messages",
		client:      client,
	}
}

func (a *claudeAdapter) ID() ID {
	return Claude
}

func (a *claudeAdapter) Send(ctx context.Context, messages []ChatMessage, model string, cred Credential, opts Options) Result {
	system, turns := splitSystem(messages)

	body := map[string]any{
		"model":       model,
		"messages":    turns,
		"temperature": opts.TemperatureValue(),
		"max_tokens":  opts.MaxTokensValue(),
	}
	if system != "" {
		body["system"] = system
	}
	for k, v := range opts.Extra {
		if _, taken := body[k]; !taken {
			body[k] = v
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Failure(Claude, model, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.messagesURL, bytes.NewReader(payload))
	if err != nil {
		return Failure(Claude, model, fmt.Errorf("construct request: %w", err))
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("x-api-key", cred.Key)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return Failure(Claude, model, fmt.Errorf("claude request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Failure(Claude, model, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failure(Claude, model, vendorError(Claude, resp.StatusCode, raw))
	}

	var envelope claudeMessageResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Failure(Claude, model, fmt.Errorf("decode claude response: %w", err))
	}

	var parts []string
	for _, block := range envelope.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	content := strings.Join(parts, "")

	tokens := envelope.Usage.InputTokens + envelope.Usage.OutputTokens
	if tokens <= 0 {
		tokens = estimateTokens(messages, content)
	}

	out := Result{
		Success:  true,
		Content:  content,
		Tokens:   tokens,
		Model:    envelope.Model,
		Provider: Claude,
	}
	if out.Model == "" {
		out.Model = model
	}
	return out
}

// splitSystem pulls system-role messages out of the conversation, joining
// them into Anthropic's top-level system field.
func splitSystem(messages []ChatMessage) (string, []ChatMessage) {
	var system []string
	turns := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return strings.Join(system, "\n\n"), turns
}

type claudeMessageResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
