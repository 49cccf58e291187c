// Package pipeline sequences retrieval, ranking, and verdict derivation
// into one fact-check pass per claim.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/factlens/factlens/internal/authority"
	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/nli"
	"github.com/factlens/factlens/internal/rank"
	"github.com/factlens/factlens/internal/search"
	"github.com/factlens/factlens/internal/verdict"
)

// Retriever produces the evidence batch for a claim.
type Retriever interface {
	Retrieve(ctx context.Context, claim model.Claim) []model.EvidenceRecord
}

// Ranker orders evidence by fused relevance.
type Ranker interface {
	Rank(ctx context.Context, claim model.Claim, evidence []model.EvidenceRecord) []model.EvidenceRecord
}

// Engine derives a decision from ranked evidence.
type Engine interface {
	Derive(ctx context.Context, claim model.Claim, ranked []model.EvidenceRecord) model.Decision
}

// Pipeline is the orchestrator: one shared instance serves concurrent
// requests. All per-request state is local; the only shared mutable
// resource is the entailment memo inside the classifier.
type Pipeline struct {
	retriever Retriever
	ranker    Ranker
	engine    Engine
	now       func() time.Time
}

// New assembles a pipeline from explicit collaborators.
func New(retriever Retriever, ranker Ranker, engine Engine) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		ranker:    ranker,
		engine:    engine,
		now:       time.Now,
	}
}

// NewFromConfig builds the full production pipeline: search provider,
// embedding encoder, NLI provider, and the shared entailment memo.
func NewFromConfig(cfg *model.Config) (*Pipeline, error) {
	encoder, err := rank.NewEncoder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("init embedding encoder: %w", err)
	}

	nliProvider, err := nli.NewProvider(cfg.NLI)
	if err != nil {
		return nil, fmt.Errorf("init NLI provider: %w", err)
	}

	classifier := nli.NewClassifier(nliProvider, nli.NewMemoryMemo(), cfg.Output.Verbose)
	provider := search.NewDuckDuckGoClient(cfg.Search)

	return New(
		search.NewRetriever(provider, cfg.Search, cfg.Output.Verbose),
		rank.NewRanker(encoder, cfg.Output.Verbose),
		verdict.NewEngine(classifier, cfg.Engine, cfg.Concurrency.ClassifyWorkers),
	), nil
}

// FactCheck runs one claim through retrieval, ranking, and derivation,
// and formats the decision's evidence into the transparency trail. It
// always returns a well-formed result: every failure inside the run
// has a degraded outcome, so no claim input produces an error.
func (p *Pipeline) FactCheck(ctx context.Context, text string) *model.FactCheckResult {
	start := p.now()
	claim := model.NewClaim(text)

	evidence := p.retriever.Retrieve(ctx, claim)
	ranked := p.ranker.Rank(ctx, claim, evidence)
	decision := p.engine.Derive(ctx, claim, ranked)

	trail := make([]model.TrailEntry, 0, len(decision.Evidence))
	for _, rec := range decision.Evidence {
		trail = append(trail, model.TrailEntry{
			Source:        rec.Domain,
			AuthorityTier: authority.TierName(rec.Authority),
			Excerpt:       rec.Snippet,
			URL:           rec.URL,
		})
	}

	latency := p.now().Sub(start).Seconds()
	return &model.FactCheckResult{
		ClaimAnalyzed:     claim.String(),
		Verdict:           decision.Status,
		Summary:           decision.Reason,
		TransparencyTrail: trail,
		Meta: model.Meta{
			Latency:          math.Round(latency*100) / 100,
			SourcesScanned:   len(evidence),
			AlgorithmVersion: model.AlgorithmVersion,
		},
	}
}
