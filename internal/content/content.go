// Package content produces generated study material. The user's own API key
// (the session secret) authenticates every call.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyResponse = errors.New("content: empty response")

// PromptSpec is one generation request.
type PromptSpec struct {
	System string
	Prompt string
	// JSON asks the model for application/json output.
	JSON bool
}

type Generator interface {
	Generate(ctx context.Context, spec PromptSpec) (string, error)
}

// GenerateJSON runs spec in JSON mode and decodes the answer into T.
// Models sometimes wrap JSON in a markdown fence; the fence is removed.
func GenerateJSON[T any](ctx context.Context, g Generator, spec PromptSpec) (*T, error) {
	spec.JSON = true
	raw, err := g.Generate(ctx, spec)
	if err != nil {
		return nil, err
	}

	raw = stripFence(raw)
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("content: decode response: %w", err)
	}
	return &out, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// drop the language tag line
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
