// Package rank orders evidence by semantic similarity to the claim
// fused with source authority.
package rank

import (
	"context"
	"fmt"
	"strings"

	"github.com/factlens/factlens/internal/model"
)

// Encoder batch-encodes texts into fixed-dimension embedding vectors.
// Implementations must be deterministic for identical input text.
type Encoder interface {
	// Encode returns one vector per input text, in input order.
	Encode(ctx context.Context, texts []string) ([][]float64, error)

	// Name returns the backend name for diagnostics.
	Name() string
}

// NewEncoder creates an embedding encoder from configuration.
func NewEncoder(cfg model.ModelConfig) (Encoder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIEncoder(cfg)
	case "endpoint", "ollama":
		return NewEndpointEncoder(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, endpoint)", cfg.Provider)
	}
}

// truncate caps the text at max runes; zero or negative max means no cap.
func truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
