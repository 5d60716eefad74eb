package modules

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ai-workspace/internal/gateway"
	"github.com/jonathan/ai-workspace/internal/provider"
)

// scriptedInvoker returns a canned result and records what it was asked.
type scriptedInvoker struct {
	result   provider.Result
	messages []provider.ChatMessage
	hint     gateway.Hint
	opts     provider.Options
}

func (s *scriptedInvoker) Invoke(_ context.Context, _ uuid.UUID, messages []provider.ChatMessage, hint gateway.Hint, opts provider.Options) provider.Result {
	s.messages = messages
	s.hint = hint
	s.opts = opts
	return s.result
}

func TestGenerateContent_BiasesChineseContentAndSkipsIntent(t *testing.T) {
	inv := &scriptedInvoker{result: provider.Result{Success: true, Content: "一段文案", Tokens: 12}}
	suite := New(inv)

	res := suite.GenerateContent(context.Background(), uuid.New(), "帮我写一段产品文案")

	require.True(t, res.Success)
	assert.Equal(t, ModuleContentGeneration, res.ModuleUsed)
	assert.Equal(t, gateway.TaskChineseContent, inv.hint.Task)
	assert.True(t, inv.opts.SkipIntentAnalysis, "module calls must bypass the classifier")

	require.Len(t, inv.messages, 2)
	assert.Equal(t, provider.RoleSystem, inv.messages[0].Role)
	assert.Contains(t, inv.messages[0].Content, "帮我写一段产品文案")
	assert.Equal(t, "帮我写一段产品文案", inv.messages[1].Content)
}

func TestAnalyzeData_RendersSchemaConformingJSON(t *testing.T) {
	inv := &scriptedInvoker{result: provider.Result{
		Success: true,
		Content: "```json\n{\"summary\":\"销量上升\",\"findings\":[\"三月环比 +12%\"],\"recommendation\":\"保持投放\"}\n```",
	}}
	suite := New(inv)

	res := suite.AnalyzeData(context.Background(), uuid.New(), "分析三月销量")

	require.True(t, res.Success)
	assert.Equal(t, ModuleDataAnalysis, res.ModuleUsed)
	assert.Contains(t, res.Content, "销量上升")
	assert.Contains(t, res.Content, "- 三月环比 +12%")
	assert.Contains(t, res.Content, "保持投放")
}

func TestAnalyzeData_KeepsRawTextWhenModelStraysFromSchema(t *testing.T) {
	inv := &scriptedInvoker{result: provider.Result{Success: true, Content: "这不是 JSON，但也是个答案"}}
	suite := New(inv)

	res := suite.AnalyzeData(context.Background(), uuid.New(), "分析")

	require.True(t, res.Success)
	assert.Equal(t, "这不是 JSON，但也是个答案", res.Content)
}

func TestAnalyzeData_FailurePassesThrough(t *testing.T) {
	inv := &scriptedInvoker{result: provider.Result{Success: false, Error: "deepseek key not configured"}}
	suite := New(inv)

	res := suite.AnalyzeData(context.Background(), uuid.New(), "分析")

	assert.False(t, res.Success)
	assert.Equal(t, "deepseek key not configured", res.Error)
	assert.Equal(t, ModuleDataAnalysis, res.ModuleUsed)
}

func TestSearchMaterial_AppendsSuggestion(t *testing.T) {
	inv := &scriptedInvoker{result: provider.Result{Success: true, Content: "素材方向：城市夜景"}}
	suite := New(inv)

	res := suite.SearchMaterial(context.Background(), uuid.New(), "找一些城市夜景素材")

	require.True(t, res.Success)
	assert.Equal(t, ModuleMaterialSearch, res.ModuleUsed)
	assert.Contains(t, res.Content, "素材方向：城市夜景")
	assert.Contains(t, res.Content, "资产库")
}

func TestParseAnalysisReport_RejectsMissingSummary(t *testing.T) {
	_, err := ParseAnalysisReport(`{"findings":["a"]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestParseAnalysisReport_RejectsUnknownFields(t *testing.T) {
	_, err := ParseAnalysisReport(`{"summary":"s","findings":[],"extra":true}`)
	assert.Error(t, err)
}
