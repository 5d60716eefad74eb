package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_GeneralChatByDefault(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, IntentGeneralChat, c.Classify("今天天气怎么样"))
	assert.Equal(t, IntentGeneralChat, c.Classify("hello, how are you?"))
	assert.Equal(t, IntentGeneralChat, c.Classify(""))
}

func TestClassify_ContentGeneration(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, IntentContentGeneration, c.Classify("帮我生成一段产品介绍"))
	assert.Equal(t, IntentContentGeneration, c.Classify("please draft an email"))
}

func TestClassify_DataAnalysis(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, IntentDataAnalysis, c.Classify("统计一下上个月的销量"))
	assert.Equal(t, IntentDataAnalysis, c.Classify("can you analyze this dataset"))
}

func TestClassify_MaterialSearch(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, IntentMaterialSearch, c.Classify("帮忙搜索相关素材"))
	assert.Equal(t, IntentMaterialSearch, c.Classify("find me a stock photo"))
}

func TestClassify_ContentBeatsDataOnOverlap(t *testing.T) {
	c := NewClassifier()
	// Contains both "写" (content) and "分析" (data); the fixed priority
	// order resolves the overlap to content generation.
	assert.Equal(t, IntentContentGeneration, c.Classify("帮我写一份数据分析报告"))
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, IntentContentGeneration, c.Classify("GENERATE a tagline"))
}

func TestClassify_InjectedTable(t *testing.T) {
	c := NewClassifierWithTable([]intentEntry{
		{Intent: IntentMaterialSearch, Keywords: []string{"banana"}},
	})
	assert.Equal(t, IntentMaterialSearch, c.Classify("where is the Banana"))
	assert.Equal(t, IntentGeneralChat, c.Classify("帮我写一份报告"))
}
