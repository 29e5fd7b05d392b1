package prompt

import (
	"fmt"
	"sync"
)

// Registry holds all loaded prompt templates.
type Registry struct {
	prompts map[string]*PromptTemplate
	mu      sync.RWMutex
}

var globalRegistry *Registry
var once sync.Once

// Get returns the global registry singleton, pre-seeded with the
// built-in defaults.
func Get() *Registry {
	once.Do(func() {
		globalRegistry = &Registry{prompts: make(map[string]*PromptTemplate)}
		for _, pt := range defaults() {
			globalRegistry.prompts[pt.ID] = pt
		}
	})
	return globalRegistry
}

// Register adds (or replaces) a prompt template.
func (r *Registry) Register(pt *PromptTemplate) error {
	if pt.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts[pt.ID] = pt
	return nil
}

// GetPrompt retrieves a prompt by ID.
func (r *Registry) GetPrompt(id string) (*PromptTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.prompts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// GetSystemPrompt returns only the system prompt string for an ID.
func (r *Registry) GetSystemPrompt(id string) (string, error) {
	pt, err := r.GetPrompt(id)
	if err != nil {
		return "", err
	}
	return pt.SystemPrompt, nil
}

// ListPrompts returns all registered prompt IDs.
func (r *Registry) ListPrompts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.prompts))
	for id := range r.prompts {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of registered prompts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}

// defaults are the shipped prompts; files under resources/prompts
// override them by ID.
func defaults() []*PromptTemplate {
	return []*PromptTemplate{
		{
			ID:       IDContractReview,
			Name:     "Contract Review",
			Category: "documents",
			SystemPrompt: "You are a commercial real estate transaction attorney reviewing deal documents. " +
				"Identify high-risk clauses (uncapped indemnities, missing liability limits), standard clauses that are absent " +
				"(environmental contingencies, Phase I ESA requirements, disclosure statements), and confirm compliance items. " +
				"Respond with a JSON object: {\"findings\": [{\"severity\": \"high|warning|ok\", \"title\": str, \"detail\": str, \"clause_ref\": str}]}. " +
				"Severity high for risk exposure, warning for missing protections, ok for passed checks.",
			UserPromptTmpl: "Document: {{.Name}} (type: {{.Type}})\n\n{{.Content}}",
			Version:        "1",
		},
		{
			ID:       IDMarketInsights,
			Name:     "Market Insights",
			Category: "market",
			SystemPrompt: "You are a real estate market analyst. Given market metrics and comparable sales, " +
				"produce actionable insights for an investor. Respond with a JSON object: " +
				"{\"insights\": [{\"kind\": \"positive|info|warning\", \"title\": str, \"detail\": str}]}. " +
				"Keep each insight to one or two sentences grounded in the supplied numbers.",
			UserPromptTmpl: "Market: {{.Market}} ({{.PropertyType}})\nAvg cap rate: {{.AvgCapRate}}\nMedian price/SF: {{.MedianPricePerSF}}\nDays on market: {{.DaysOnMarket}}\n\nComparables:\n{{.Comparables}}",
			Version:        "1",
		},
	}
}
