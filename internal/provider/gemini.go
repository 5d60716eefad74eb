package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiAdapter calls Google Gemini through the official SDK. Gemini's
// schema differs from the OpenAI-style convention the other vendors share:
// system prompts go into a separate systemInstruction field and assistant
// turns use the "model" role, so the message list is remapped here.
type geminiAdapter struct {
	timeout time.Duration
}

func newGeminiAdapter(timeout time.Duration) *geminiAdapter {
	return &geminiAdapter{timeout: timeout}
}

func (a *geminiAdapter) ID() ID {
	return Gemini
}

func (a *geminiAdapter) Send(ctx context.Context, messages []ChatMessage, model string, cred Credential, opts Options) Result {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(cred.Key))
	if err != nil {
		return Failure(Gemini, model, fmt.Errorf("create gemini client: %w", err))
	}
	defer func() { _ = client.Close() }()

	gm := client.GenerativeModel(model)
	gm.SetTemperature(float32(opts.TemperatureValue()))
	gm.SetMaxOutputTokens(int32(opts.MaxTokensValue()))

	system, turns := splitSystem(messages)
	if system != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(turns) == 0 {
		return Failure(Gemini, model, fmt.Errorf("conversation contains no user or assistant messages"))
	}

	session := gm.StartChat()
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return Failure(Gemini, model, fmt.Errorf("gemini request failed: %w", err))
	}

	content, err := geminiText(resp)
	if err != nil {
		return Failure(Gemini, model, err)
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	if tokens <= 0 {
		tokens = estimateTokens(messages, content)
	}

	return Result{
		Success:  true,
		Content:  content,
		Tokens:   tokens,
		Model:    model,
		Provider: Gemini,
	}
}

// geminiText extracts the text parts from a Gemini response.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini response contained no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response contained no content")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini response contained no text parts")
	}
	return strings.Join(parts, ""), nil
}
