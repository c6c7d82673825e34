package service

import (
	"strings"
	"testing"
)

func TestValidateAnalysisJSONAccepts(t *testing.T) {
	if err := ValidateAnalysisJSON([]byte(validAnalysisJSON)); err != nil {
		t.Errorf("Expected valid analysis to pass: %v", err)
	}
}

func TestValidateAnalysisJSONMinimal(t *testing.T) {
	minimal := `{
		"contract_data": {},
		"rental_events": [],
		"completeness_analysis": {"completeness_score": 0}
	}`
	if err := ValidateAnalysisJSON([]byte(minimal)); err != nil {
		t.Errorf("Expected minimal envelope to pass: %v", err)
	}
}

func TestValidateAnalysisJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json at all"},
		{"missing envelope keys", `{"contract_data": {}}`},
		{"score above range", `{"contract_data": {}, "rental_events": [], "completeness_analysis": {"completeness_score": 101}}`},
		{"score below range", `{"contract_data": {}, "rental_events": [], "completeness_analysis": {"completeness_score": -1}}`},
		{"score missing", `{"contract_data": {}, "rental_events": [], "completeness_analysis": {}}`},
		{"event without type", `{"contract_data": {}, "rental_events": [{"title": "x"}], "completeness_analysis": {"completeness_score": 10}}`},
		{"events not an array", `{"contract_data": {}, "rental_events": {}, "completeness_analysis": {"completeness_score": 10}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateAnalysisJSON([]byte(tt.data)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestRenderAnalysisPrompt(t *testing.T) {
	prompt, err := RenderAnalysisPrompt("THE CONTRACT BODY")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(prompt, "THE CONTRACT BODY") {
		t.Error("Expected contract text embedded in prompt")
	}
	if !strings.Contains(prompt, "completeness_score") {
		t.Error("Expected schema description in prompt")
	}
	if !strings.Contains(prompt, "rental_events") {
		t.Error("Expected rental_events section in prompt")
	}
	if !strings.Contains(prompt, "Return ONLY a valid JSON object") {
		t.Error("Expected JSON-only instruction in prompt")
	}
}
