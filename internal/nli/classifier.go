package nli

import (
	"context"
	"fmt"
	"os"

	"github.com/factlens/factlens/internal/model"
)

// Classifier is the cached entailment-classification step: it memoizes
// provider results by content hash and degrades any provider failure to
// (NEUTRAL, 0.0) so classification never fails the pipeline.
type Classifier struct {
	provider Provider
	memo     Memo
	verbose  bool
}

// NewClassifier creates a classifier over the given provider and memo
// store.
func NewClassifier(provider Provider, memo Memo, verbose bool) *Classifier {
	return &Classifier{provider: provider, memo: memo, verbose: verbose}
}

// Classify returns the entailment judgment for one (claim, snippet)
// pair. An empty snippet is immediately NEUTRAL with zero confidence
// and never touches the model or the memo.
func (c *Classifier) Classify(ctx context.Context, claim, snippet string) model.Entailment {
	if snippet == "" {
		return model.Entailment{Label: model.LabelNeutral, Confidence: 0}
	}

	key := MemoKey(claim, snippet)
	if cached, found := c.memo.Get(key); found {
		return cached
	}

	rawLabel, confidence, err := c.provider.Infer(ctx, snippet, claim)
	if err != nil {
		if c.verbose {
			fmt.Fprintf(os.Stderr, "Warning: NLI inference failed, degrading to NEUTRAL: %v\n", err)
		}
		return model.Entailment{Label: model.LabelNeutral, Confidence: 0}
	}

	result := model.Entailment{Label: MapLabel(rawLabel), Confidence: confidence}
	c.memo.Put(key, result)
	return result
}
