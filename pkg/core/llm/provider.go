// Package llm abstracts the language-model providers used for contract
// review and market insight generation.
package llm

import (
	"context"
	"strings"
)

// Provider is the interface every model backend implements.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into the phrasing a
	// given model family responds best to.
	AdaptInstructions(rawInstructions string) string
}

// Message is a single chat turn for the OpenAI-compatible backends.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// wantsJSON reports whether the caller asked for a JSON object reply,
// either explicitly through options or implicitly in the prompts.
func wantsJSON(prompt, systemPrompt string, options map[string]interface{}) bool {
	if val, ok := options["response_format"].(map[string]interface{}); ok {
		return val["type"] == "json_object"
	}
	return strings.Contains(strings.ToLower(prompt), "json") ||
		strings.Contains(strings.ToLower(systemPrompt), "json")
}

// optionString reads a string option with a default.
func optionString(options map[string]interface{}, key, fallback string) string {
	if val, ok := options[key].(string); ok && val != "" {
		return val
	}
	return fallback
}
