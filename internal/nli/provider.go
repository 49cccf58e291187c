// Package nli classifies whether evidence text entails, contradicts,
// or is neutral toward a claim, memoizing results by content hash.
package nli

import (
	"context"
	"fmt"
	"strings"

	"github.com/factlens/factlens/internal/model"
)

// Provider is the natural-language-inference model boundary: premise
// (evidence text) and hypothesis (claim) in, raw label and confidence
// out. Implementations truncate long inputs rather than erroring.
type Provider interface {
	// Infer returns the model's raw label string and confidence in [0,1].
	Infer(ctx context.Context, premise, hypothesis string) (label string, confidence float64, err error)

	// Name returns the backend name for diagnostics.
	Name() string
}

// NewProvider creates an NLI provider from configuration.
func NewProvider(cfg model.ModelConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "endpoint", "hf":
		return NewEndpointProvider(cfg)
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown NLI provider: %s (supported: endpoint, openai)", cfg.Provider)
	}
}

// MapLabel normalizes a model's raw label into the engine's three-way
// scheme: any label containing "contradiction" maps to CONTRA, any
// containing "entailment" to ENTAIL, everything else to NEUTRAL.
func MapLabel(raw string) model.EntailmentLabel {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "contradiction"):
		return model.LabelContra
	case strings.Contains(lower, "entailment"):
		return model.LabelEntail
	default:
		return model.LabelNeutral
	}
}
