package content

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiGenerator calls the Generative Language generateContent method.
type GeminiGenerator struct {
	svc   *generativelanguage.Service
	model string
}

// NewGeminiGenerator authenticates with apiKey. Extra options are appended
// after the key, so tests can redirect the endpoint.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("content: api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	svc, err := generativelanguage.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("content: init gemini: %w", err)
	}
	return &GeminiGenerator{svc: svc, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, spec PromptSpec) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: spec.Prompt}},
		}},
	}
	if spec.System != "" {
		req.SystemInstruction = &generativelanguage.Content{
			Parts: []*generativelanguage.Part{{Text: spec.System}},
		}
	}
	if spec.JSON {
		req.GenerationConfig = &generativelanguage.GenerationConfig{ResponseMimeType: "application/json"}
	}

	resp, err := g.svc.Models.GenerateContent(modelName(g.model), req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("content: generate: %w", err)
	}

	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil {
				b.WriteString(p.Text)
			}
		}
		// first candidate with content wins
		if b.Len() > 0 {
			break
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func modelName(m string) string {
	if strings.HasPrefix(m, "models/") {
		return m
	}
	return "models/" + m
}
