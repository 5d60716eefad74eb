// Package modules implements the functional subsystems chat requests get
// redirected to: content generation, data analysis and material search.
// Each one wraps a prompt template around a gateway call issued with intent
// analysis disabled, so a redirected request can never loop back here.
package modules

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/ai-workspace/internal/gateway"
	"github.com/jonathan/ai-workspace/internal/prompts"
	"github.com/jonathan/ai-workspace/internal/provider"
)

// Module names recorded on results served by a redirect.
const (
	ModuleContentGeneration = "content_generation"
	ModuleDataAnalysis      = "data_analysis"
	ModuleMaterialSearch    = "material_search"
)

// Invoker is the slice of the gateway the modules need. Satisfied by
// *gateway.Service.
type Invoker interface {
	Invoke(ctx context.Context, userID uuid.UUID, messages []provider.ChatMessage, hint gateway.Hint, opts provider.Options) provider.Result
}

// Suite bundles the three subsystems behind the gateway.Modules interface.
type Suite struct {
	invoker Invoker
}

// New builds the module suite around a gateway invoker.
func New(invoker Invoker) *Suite {
	return &Suite{invoker: invoker}
}

// GenerateContent serves a content-generation request. Chinese copywriting
// dominates this path, so selection is biased toward the Chinese-content
// provider ordering.
func (s *Suite) GenerateContent(ctx context.Context, userID uuid.UUID, prompt string) provider.Result {
	system := prompts.Format(prompts.MustGet("modules.json", "content-generation"),
		map[string]string{"Prompt": prompt})

	res := s.invoke(ctx, userID, system, prompt, gateway.TaskChineseContent)
	res.ModuleUsed = ModuleContentGeneration
	return res
}

// AnalyzeData serves a data-analysis request. The model is asked for a
// structured JSON verdict which is checked against a schema; when the model
// strays from the schema the raw text is kept rather than failing the
// request.
func (s *Suite) AnalyzeData(ctx context.Context, userID uuid.UUID, query string) provider.Result {
	system := prompts.Format(prompts.MustGet("modules.json", "data-analysis"),
		map[string]string{"Query": query})

	res := s.invoke(ctx, userID, system, query, gateway.TaskDataAnalysis)
	res.ModuleUsed = ModuleDataAnalysis
	if !res.Success {
		return res
	}

	if report, err := ParseAnalysisReport(res.Content); err == nil {
		res.Content = report.Render()
	}
	return res
}

// SearchMaterial serves a material-search request and appends the fixed
// asset-library suggestion to the answer.
func (s *Suite) SearchMaterial(ctx context.Context, userID uuid.UUID, query string) provider.Result {
	system := prompts.Format(prompts.MustGet("modules.json", "material-search"),
		map[string]string{"Query": query})

	res := s.invoke(ctx, userID, system, query, gateway.TaskReasoning)
	res.ModuleUsed = ModuleMaterialSearch
	if res.Success {
		suggestion := prompts.MustGet("modules.json", "material-search-suggestion")
		res.Content = strings.TrimSpace(res.Content) + "\n\n" + suggestion
	}
	return res
}

func (s *Suite) invoke(ctx context.Context, userID uuid.UUID, system, user string, task gateway.TaskType) provider.Result {
	messages := []provider.ChatMessage{
		{Role: provider.RoleSystem, Content: system},
		{Role: provider.RoleUser, Content: user},
	}
	return s.invoker.Invoke(ctx, userID, messages, gateway.Hint{Task: task},
		provider.Options{SkipIntentAnalysis: true})
}
