// Package utils holds the shared helpers for recovering structured data
// from LLM output and rendering markdown reports.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the usual LLM JSON defects: markdown code fences,
// single quotes, unquoted keys, trailing commas, unclosed brackets.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses human-friendly JSON (comments, unquoted keys,
// optional commas) and normalizes it to standard JSON.
func ParseHJSON(data string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(data), &result); err != nil {
		return "", fmt.Errorf("hjson parse failed: %w", err)
	}
	normalized, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("hjson normalize failed: %w", err)
	}
	return string(normalized), nil
}

// DecodeLenient unmarshals LLM output into target, escalating through
// three attempts: as-is, repaired, then hjson-normalized. Models drift
// between strict JSON and something looser; the agents should not care.
func DecodeLenient(raw string, target interface{}) error {
	if err := json.Unmarshal([]byte(raw), target); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(raw); err == nil {
		if err := json.Unmarshal([]byte(repaired), target); err == nil {
			return nil
		}
	}

	normalized, err := ParseHJSON(raw)
	if err != nil {
		return fmt.Errorf("output is not decodable JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(normalized), target); err != nil {
		return fmt.Errorf("output did not match the expected schema: %w", err)
	}
	return nil
}
