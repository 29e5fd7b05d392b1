package utils_test

import (
	"strings"
	"testing"

	"deal_evaluation/pkg/core/utils"
)

type reply struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

func TestDecodeLenient_StrictJSON(t *testing.T) {
	var r reply
	if err := utils.DecodeLenient(`{"kind":"positive","title":"Strong Rental Demand"}`, &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != "positive" || r.Title != "Strong Rental Demand" {
		t.Errorf("unexpected decode result %+v", r)
	}
}

func TestDecodeLenient_RepairsFencedOutput(t *testing.T) {
	raw := "```json\n{'kind': 'warning', 'title': 'Interest Rate Impact',}\n```"
	var r reply
	if err := utils.DecodeLenient(raw, &r); err != nil {
		t.Fatalf("repair should recover fenced single-quoted JSON: %v", err)
	}
	if r.Kind != "warning" {
		t.Errorf("expected kind warning, got %q", r.Kind)
	}
}

func TestDecodeLenient_HJSONFallback(t *testing.T) {
	raw := `{
  # analyst note
  kind: info
  title: New Construction Activity
}`
	var r reply
	if err := utils.DecodeLenient(raw, &r); err != nil {
		t.Fatalf("hjson fallback should handle commented output: %v", err)
	}
	if r.Kind != "info" {
		t.Errorf("expected kind info, got %q", r.Kind)
	}
}

func TestCleanMarkdown(t *testing.T) {
	in := "```markdown\n# Review\n\nAll clear.\n```"
	got := utils.CleanMarkdown(in)
	if got != "# Review\n\nAll clear." {
		t.Errorf("unexpected cleaned markdown %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	html, err := utils.RenderMarkdown("# Review\n\n- **High Risk Clause Detected**")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<h1>Review</h1>") {
		t.Errorf("expected h1 in output, got %q", html)
	}
	if !strings.Contains(html, "<strong>High Risk Clause Detected</strong>") {
		t.Errorf("expected bold finding in output, got %q", html)
	}
}
