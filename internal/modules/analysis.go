package modules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed analysis_schema.json
var analysisSchema []byte

// AnalysisReport is the structured verdict the analysis prompt asks the
// model for.
type AnalysisReport struct {
	Summary        string   `json:"summary"`
	Findings       []string `json:"findings"`
	Recommendation string   `json:"recommendation"`
}

// ParseAnalysisReport extracts and schema-checks a model's analysis answer.
// Markdown code fences around the JSON are tolerated.
func ParseAnalysisReport(text string) (*AnalysisReport, error) {
	cleaned := stripCodeFence(text)

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(analysisSchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return nil, fmt.Errorf("validate analysis report: %w", err)
	}
	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("analysis report does not match schema: %s", strings.Join(issues, "; "))
	}

	var report AnalysisReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, fmt.Errorf("decode analysis report: %w", err)
	}
	return &report, nil
}

// Render flattens the report back into display text.
func (r *AnalysisReport) Render() string {
	var sb strings.Builder
	sb.WriteString(r.Summary)
	for _, finding := range r.Findings {
		sb.WriteString("\n- ")
		sb.WriteString(finding)
	}
	if r.Recommendation != "" {
		sb.WriteString("\n\n")
		sb.WriteString(r.Recommendation)
	}
	return sb.String()
}

// stripCodeFence removes a surrounding markdown code block, which models
// add routinely even when told not to.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
