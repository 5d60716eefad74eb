package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// openAICompat speaks the OpenAI-style /chat/completions dialect shared by
// OpenAI, DeepSeek, Kimi (Moonshot) and Zhipu: Bearer auth, the same message
// schema, and usage reported as total_tokens.
type openAICompat struct {
	id      ID
	chatURL string
	client  *http.Client
}

func newOpenAICompat(id ID, client *http.Client) *openAICompat {
	desc := descriptors[id]
	return &openAICompat{
		id:      id,
		chatURL: desc.BaseURL + "/chat/completions",
		client:  client,
	}
}

func (a *openAICompat) ID() ID {
	return a.id
}

func (a *openAICompat) Send(ctx context.Context, messages []ChatMessage, model string, cred Credential, opts Options) Result {
	body := map[string]any{
		"model":       model,
		"messages":    messages,
		"temperature": opts.TemperatureValue(),
		"max_tokens":  opts.MaxTokensValue(),
	}
	// Unrecognized options pass through untouched; known keys win.
	for k, v := range opts.Extra {
		if _, taken := body[k]; !taken {
			body[k] = v
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Failure(a.id, model, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.chatURL, bytes.NewReader(payload))
	if err != nil {
		return Failure(a.id, model, fmt.Errorf("construct request: %w", err))
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Authorization", "Bearer "+cred.Key)

	resp, err := a.client.Do(req)
	if err != nil {
		return Failure(a.id, model, fmt.Errorf("%s request failed: %w", a.id, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Failure(a.id, model, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failure(a.id, model, vendorError(a.id, resp.StatusCode, raw))
	}

	var envelope openAIChatResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Failure(a.id, model, fmt.Errorf("decode %s response: %w", a.id, err))
	}
	if len(envelope.Choices) == 0 {
		return Failure(a.id, model, fmt.Errorf("%s response contained no choices", a.id))
	}

	content := envelope.Choices[0].Message.Content
	tokens := 0
	if envelope.Usage != nil {
		tokens = envelope.Usage.TotalTokens
	}
	if tokens <= 0 {
		tokens = estimateTokens(messages, content)
	}

	out := Result{
		Success:  true,
		Content:  content,
		Tokens:   tokens,
		Model:    envelope.Model,
		Provider: a.id,
	}
	if out.Model == "" {
		out.Model = model
	}
	return out
}

type openAIChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

const (
	contentTypeJSON  = "application/json"
	maxResponseBytes = 4 << 20
)

// vendorError prefers the vendor's own error text when the body carries a
// recognizable error envelope, else reports the raw status.
func vendorError(id ID, status int, body []byte) error {
	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message  string `json:"message"`
		ErrorMsg string `json:"error_msg"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Error != nil && envelope.Error.Message != "":
			return fmt.Errorf("%s: %s", id, envelope.Error.Message)
		case envelope.ErrorMsg != "":
			return fmt.Errorf("%s: %s", id, envelope.ErrorMsg)
		case envelope.Message != "":
			return fmt.Errorf("%s: %s", id, envelope.Message)
		}
	}
	return fmt.Errorf("%s request failed with status %d", id, status)
}
