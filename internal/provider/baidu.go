package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// baiduModelEndpoints maps public ERNIE model names to the per-model chat
// endpoint path suffixes Baidu exposes.
var baiduModelEndpoints = map[string]string{
	"ernie-4.0-8k":  "completions_pro",
	"ernie-3.5-8k":  "completions",
	"ernie-speed-8k": "ernie_speed",
}

// baiduAdapter speaks the Baidu Wenxin (ERNIE) dialect. Unlike every other
// vendor this is a two-step flow: the API key and secret key are first
// exchanged for a short-lived OAuth access token, then the chat call carries
// that token as a query parameter. The exchange is part of this adapter's
// contract, not special-cased by the caller.
type baiduAdapter struct {
	baseURL string
	client  *http.Client
}

func newBaiduAdapter(client *http.Client) *baiduAdapter {
	return &baiduAdapter{
		baseURL: descriptors[Baidu].BaseURL,
		client:  client,
	}
}

func (a *baiduAdapter) ID() ID {
	return Baidu
}

func (a *baiduAdapter) Send(ctx context.Context, messages []ChatMessage, model string, cred Credential, opts Options) Result {
	endpoint, ok := baiduModelEndpoints[model]
	if !ok {
		return Failure(Baidu, model, fmt.Errorf("no chat endpoint mapped for model %q", model))
	}

	token, err := ExchangeBaiduToken(ctx, a.client, a.baseURL, cred.Key, cred.Secret)
	if err != nil {
		return Failure(Baidu, model, err)
	}

	system, turns := splitSystem(messages)
	body := map[string]any{
		"messages":          turns,
		"temperature":       opts.TemperatureValue(),
		"max_output_tokens": opts.MaxTokensValue(),
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
		return Failure(Baidu, model, fmt.Errorf("marshal request: %w", err))
	}

	chatURL := fmt.Sprintf("%s/rpc/2.0/ai_custom/v1/wenxinworkshop/chat/%s?access_token=%s",
		a.baseURL, endpoint, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatURL, bytes.NewReader(payload))
	if err != nil {
		return Failure(Baidu, model, fmt.Errorf("construct request: %w", err))
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := a.client.Do(req)
	if err != nil {
		return Failure(Baidu, model, fmt.Errorf("baidu request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Failure(Baidu, model, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failure(Baidu, model, vendorError(Baidu, resp.StatusCode, raw))
	}

	var envelope baiduChatResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Failure(Baidu, model, fmt.Errorf("decode baidu response: %w", err))
	}
	// Baidu reports application errors with HTTP 200.
	if envelope.ErrorCode != 0 {
		return Failure(Baidu, model, fmt.Errorf("baidu error %d: %s", envelope.ErrorCode, envelope.ErrorMsg))
	}

	tokens := 0
	if envelope.Usage != nil {
		tokens = envelope.Usage.TotalTokens
	}
	if tokens <= 0 {
		tokens = estimateTokens(messages, envelope.Result)
	}

	return Result{
		Success:  true,
		Content:  envelope.Result,
		Tokens:   tokens,
		Model:    model,
		Provider: Baidu,
	}
}

type baiduChatResponse struct {
	Result string `json:"result"`
	Usage  *struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	ErrorCode int    `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// ExchangeBaiduToken trades a Baidu API key and secret key for a short-lived
// OAuth access token. The credential validator uses the same exchange as its
// liveness probe, so it is exported from this package.
func ExchangeBaiduToken(ctx context.Context, client *http.Client, baseURL, apiKey, secretKey string) (string, error) {
	query := url.Values{}
	query.Set("grant_type", "client_credentials")
	query.Set("client_id", apiKey)
	query.Set("client_secret", secretKey)

	tokenURL := baseURL + "/oauth/2.0/token?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("construct token request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("baidu token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	var envelope struct {
		AccessToken      string `json:"access_token"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if envelope.AccessToken == "" {
		if envelope.Error != "" {
			return "", fmt.Errorf("baidu token exchange rejected: %s: %s", envelope.Error, envelope.ErrorDescription)
		}
		return "", fmt.Errorf("baidu token exchange returned no access token")
	}
	return envelope.AccessToken, nil
}
