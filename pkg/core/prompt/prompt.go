// Package prompt provides a centralized prompt library for LLM
// interactions. Prompts live in JSON files under resources/prompts and
// are loaded at runtime, so wording can change without a rebuild;
// built-in defaults cover the core agents when no files are present.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// PromptTemplate is a reusable prompt with metadata.
type PromptTemplate struct {
	ID             string `json:"id"`                   // e.g. "documents.contract_review"
	Name           string `json:"name"`                 // human-readable name
	Category       string `json:"category"`             // documents, market, ...
	Description    string `json:"description"`          // purpose
	SystemPrompt   string `json:"system_prompt"`        // system prompt content
	UserPromptTmpl string `json:"user_prompt_template"` // Go template for the user prompt
	Version        string `json:"version"`              // tracking
}

// Render executes the user prompt template with the given variables.
func (pt *PromptTemplate) Render(vars map[string]interface{}) (string, error) {
	tmpl, err := template.New(pt.ID).Parse(pt.UserPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", pt.ID, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", pt.ID, err)
	}
	return buf.String(), nil
}

// Known prompt identifiers.
const (
	IDContractReview = "documents.contract_review"
	IDMarketInsights = "market.insights"
)
