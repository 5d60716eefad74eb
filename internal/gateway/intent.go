package gateway

import "strings"

// Intent is the functional subsystem a free-text request belongs to.
type Intent string

const (
	IntentGeneralChat       Intent = "general_chat"
	IntentContentGeneration Intent = "content_generation"
	IntentDataAnalysis      Intent = "data_analysis"
	IntentMaterialSearch    Intent = "material_search"
)

// intentEntry owns the trigger substrings for one intent. Entries are
// scanned in order, so the table's order is the priority order.
type intentEntry struct {
	Intent   Intent
	Keywords []string
}

// DefaultKeywordTable returns the built-in trigger table. Priority is
// content generation, then data analysis, then material search; anything
// else is general chat. The match is deliberately coarse: a false positive
// costs nothing, because the fallback answer is no worse than plain chat.
func DefaultKeywordTable() []intentEntry {
	return []intentEntry{
		{
			Intent: IntentContentGeneration,
			Keywords: []string{
				"生成", "写", "创作", "文案", "帮我写", "起草", "撰写",
				"write", "generate", "draft", "compose",
			},
		},
		{
			Intent: IntentDataAnalysis,
			Keywords: []string{
				"分析", "统计", "图表", "数据", "趋势", "汇总",
				"analyze", "analysis", "chart", "statistics",
			},
		},
		{
			Intent: IntentMaterialSearch,
			Keywords: []string{
				"素材", "找一个", "搜索", "资料", "查找",
				"search for", "find me", "material",
			},
		},
	}
}

// Classifier routes free text to an intent by case-insensitive substring
// membership. No NLP: the table is data, injected at construction, and a
// short-circuiting ordered scan makes ties impossible by construction.
type Classifier struct {
	table []intentEntry
}

// NewClassifier builds a classifier with the default keyword table.
func NewClassifier() *Classifier {
	return NewClassifierWithTable(DefaultKeywordTable())
}

// NewClassifierWithTable builds a classifier from an explicit table.
func NewClassifierWithTable(table []intentEntry) *Classifier {
	return &Classifier{table: table}
}

// Classify returns the first intent whose keyword set matches the text.
func (c *Classifier) Classify(text string) Intent {
	lowered := strings.ToLower(text)
	for _, entry := range c.table {
		for _, kw := range entry.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return entry.Intent
			}
		}
	}
	return IntentGeneralChat
}
