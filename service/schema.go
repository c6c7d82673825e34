package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildAnalysisSchema returns the JSON Schema (draft 2020-12 subset) that
// the model's output must satisfy before it is accepted. The schema is
// deliberately loose about contract_data internals (the model may omit or
// null anything) but strict about the envelope and the score bounds, so
// the fallback analysis always validates too.
func BuildAnalysisSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"contract_data", "rental_events", "completeness_analysis"},
		"properties": map[string]any{
			"contract_data": map[string]any{"type": "object"},
			"rental_events": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"event_type", "title"},
					"properties": map[string]any{
						"event_type": map[string]any{"type": "string", "minLength": 1},
						"title":      map[string]any{"type": "string", "minLength": 1},
						"due_date":   map[string]any{"type": "string"},
						"priority":   map[string]any{"type": "string"},
					},
				},
			},
			"completeness_analysis": map[string]any{
				"type":     "object",
				"required": []string{"completeness_score"},
				"properties": map[string]any{
					"completeness_score": map[string]any{
						"type":    "number",
						"minimum": 0,
						"maximum": 100,
					},
					"missing_critical":  map[string]any{"type": "array"},
					"missing_important": map[string]any{"type": "array"},
					"actionable_gaps":   map[string]any{"type": "array"},
				},
			},
		},
	}
}

// ValidateAnalysisJSON validates data against the analysis schema.
func ValidateAnalysisJSON(data []byte) error {
	b, err := json.Marshal(BuildAnalysisSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("analysis.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("analysis.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
