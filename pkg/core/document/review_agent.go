package document

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"deal_evaluation/pkg/core/prompt"
	"deal_evaluation/pkg/core/utils"
)

// Generator produces the raw model reply for a review prompt. The
// production implementation talks to Gemini; tests substitute a mock.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
}

// GeminiGenerator drives the review through the Gemini SDK directly.
type GeminiGenerator struct {
	modelName string
	client    *genai.Client
}

// NewGeminiGenerator builds the client from GEMINI_API_KEY.
func NewGeminiGenerator(ctx context.Context) (*GeminiGenerator, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		modelName: "gemini-2.0-flash-exp",
		client:    client,
	}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	fullPrompt := fmt.Sprintf("%s\n\nTask: %s", systemPrompt, userPrompt)
	resp, err := model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return "", fmt.Errorf("review generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("review model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// Reviewer runs contract reviews and grades the outcome.
type Reviewer struct {
	gen Generator
}

// NewReviewer wraps a generator.
func NewReviewer(gen Generator) *Reviewer {
	return &Reviewer{gen: gen}
}

type reviewReply struct {
	Findings []Finding `json:"findings"`
}

// Review analyzes the document content and returns the graded findings.
// The document's status should move to ReviewProcessing before calling
// and be settled from the returned review afterwards.
func (r *Reviewer) Review(ctx context.Context, doc *Document, content string) (*Review, error) {
	pt, err := prompt.Get().GetPrompt(prompt.IDContractReview)
	if err != nil {
		return nil, err
	}

	userPrompt, err := pt.Render(map[string]interface{}{
		"Name":    doc.Name,
		"Type":    string(doc.Type),
		"Content": content,
	})
	if err != nil {
		return nil, err
	}

	raw, err := r.gen.Generate(ctx, pt.SystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var reply reviewReply
	if err := utils.DecodeLenient(raw, &reply); err != nil {
		return nil, fmt.Errorf("review reply not usable: %w", err)
	}

	for i := range reply.Findings {
		switch reply.Findings[i].Severity {
		case SeverityHigh, SeverityWarning, SeverityOK:
		default:
			reply.Findings[i].Severity = SeverityWarning
		}
	}

	return &Review{
		DocumentID: doc.ID,
		Findings:   reply.Findings,
		ReviewedAt: time.Now().UTC(),
		Provider:   r.gen.Name(),
	}, nil
}

// StatusFor maps a finished review onto the document status.
func StatusFor(rev *Review) ReviewStatus {
	if rev.HasIssues() {
		return ReviewIssues
	}
	return ReviewDone
}
