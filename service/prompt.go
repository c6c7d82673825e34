package service

import (
	_ "embed"
	"strings"
	"text/template"
)

// The analysis prompt lives in a separate template file so it can be
// reviewed and versioned without touching code. It is parsed once at
// startup; the contract text is the only variable.

//go:embed prompt.tmpl
var promptSource string

var promptTmpl = template.Must(template.New("analysis-prompt").Parse(promptSource))

// systemPrompt frames every chat-completion request.
const systemPrompt = "You are an expert contract analyst. Return only valid JSON with comprehensive analysis."

type promptData struct {
	ContractText string
}

// RenderAnalysisPrompt produces the user prompt for one contract.
func RenderAnalysisPrompt(contractText string) (string, error) {
	var b strings.Builder
	if err := promptTmpl.Execute(&b, promptData{ContractText: contractText}); err != nil {
		return "", err
	}
	return b.String(), nil
}
