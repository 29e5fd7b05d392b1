package market

import (
	"context"
	"fmt"
	"strings"

	"deal_evaluation/pkg/core/agent"
	"deal_evaluation/pkg/core/prompt"
	"deal_evaluation/pkg/core/utils"
)

// InsightsAgent turns a market snapshot into analyst-style insights.
type InsightsAgent struct {
	manager *agent.Manager
}

// NewInsightsAgent wires the agent to the provider manager.
func NewInsightsAgent(mgr *agent.Manager) *InsightsAgent {
	return &InsightsAgent{manager: mgr}
}

type insightsReply struct {
	Insights []Insight `json:"insights"`
}

// Generate asks the model for insights grounded in the snapshot.
func (a *InsightsAgent) Generate(ctx context.Context, snap Snapshot) ([]Insight, error) {
	pt, err := prompt.Get().GetPrompt(prompt.IDMarketInsights)
	if err != nil {
		return nil, err
	}

	var comps strings.Builder
	for _, c := range snap.Comparables {
		fmt.Fprintf(&comps, "- %s: $%.0f (%.0f/SF, cap %.1f%%)\n",
			c.Property, c.SalePrice, c.PricePerSF, c.CapRate*100)
	}

	userPrompt, err := pt.Render(map[string]interface{}{
		"Market":           snap.Market,
		"PropertyType":     snap.PropertyType,
		"AvgCapRate":       fmt.Sprintf("%.2f%%", snap.AvgCapRate*100),
		"MedianPricePerSF": fmt.Sprintf("$%.0f", snap.MedianPricePerSF),
		"DaysOnMarket":     snap.DaysOnMarket,
		"Comparables":      comps.String(),
	})
	if err != nil {
		return nil, err
	}

	raw, err := a.manager.ExecutePrompt(ctx, agent.AgentMarketInsights, userPrompt, pt.SystemPrompt, nil)
	if err != nil {
		return nil, fmt.Errorf("insight generation failed: %w", err)
	}

	var reply insightsReply
	if err := utils.DecodeLenient(raw, &reply); err != nil {
		return nil, fmt.Errorf("insight reply not usable: %w", err)
	}

	// Unknown kinds degrade to info rather than failing the request.
	for i := range reply.Insights {
		switch reply.Insights[i].Kind {
		case InsightPositive, InsightInfo, InsightWarning:
		default:
			reply.Insights[i].Kind = InsightInfo
		}
	}
	return reply.Insights, nil
}
