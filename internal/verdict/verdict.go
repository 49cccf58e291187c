// Package verdict converts ranked, classified evidence into a graded
// decision with a transparency trail.
package verdict

import (
	"context"
	"strings"
	"sync"

	"github.com/factlens/factlens/internal/authority"
	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/query"
)

// EntailmentClassifier is the cached NLI step the engine scores
// evidence with.
type EntailmentClassifier interface {
	Classify(ctx context.Context, claim, snippet string) model.Entailment
}

// Engine derives a verdict from ranked evidence. The decision policy is
// an ordered list of guard/result rules evaluated top-down; the first
// rule that fires terminates the decision.
type Engine struct {
	classifier EntailmentClassifier
	cfg        model.EngineConfig
	workers    int
}

// NewEngine creates a verdict engine.
func NewEngine(classifier EntailmentClassifier, cfg model.EngineConfig, classifyWorkers int) *Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if classifyWorkers <= 0 {
		classifyWorkers = 1
	}
	return &Engine{classifier: classifier, cfg: cfg, workers: classifyWorkers}
}

// tally is the scored view of the ranked evidence the rules inspect.
type tally struct {
	claim        string
	ranked       []model.EvidenceRecord
	supportScore float64
	refuteScore  float64
	supporting   []model.EvidenceRecord
	refuting     []model.EvidenceRecord
}

// rule is one guard/result pair of the decision table. A nil return
// passes control to the next rule.
type rule func(t *tally) *model.Decision

// Derive runs the decision table over the ranked evidence.
func (e *Engine) Derive(ctx context.Context, claim model.Claim, ranked []model.EvidenceRecord) model.Decision {
	t := &tally{claim: claim.String(), ranked: ranked}

	rules := []rule{
		e.safetyOverride,
		e.scoreEvidence(ctx),
		e.authorityOverride,
		e.insufficientEvidence,
		e.extraordinaryClaimGate,
		e.marginDecision,
	}
	for _, r := range rules {
		if d := r(t); d != nil {
			return *d
		}
	}

	// Fallback: conflicting or contextless evidence.
	return model.Decision{
		Status:   model.VerdictDisputed,
		Reason:   "Sources are conflicted or context is missing.",
		Evidence: head(t.ranked, 3),
	}
}

// safetyOverride fires before any scoring: a scam-pattern claim with
// scam- or fraud-titled evidence is flagged immediately.
func (e *Engine) safetyOverride(t *tally) *model.Decision {
	if !query.HasSafetyTrigger(t.claim) {
		return nil
	}

	var scamEvidence []model.EvidenceRecord
	for _, rec := range t.ranked {
		title := strings.ToLower(rec.Title)
		if strings.Contains(title, "scam") || strings.Contains(title, "fraud") {
			scamEvidence = append(scamEvidence, rec)
		}
	}
	if len(scamEvidence) == 0 {
		return nil
	}

	return &model.Decision{
		Status:   model.VerdictScam,
		Reason:   "Multiple sources identify this pattern as a known fraud tactic.",
		Evidence: head(scamEvidence, 3),
	}
}

// scoreEvidence classifies the top-K records and accumulates weighted
// support and refute scores. It never decides by itself. Stale records
// are skipped before classification; impact is authority x confidence.
func (e *Engine) scoreEvidence(ctx context.Context) rule {
	return func(t *tally) *model.Decision {
		top := head(t.ranked, e.cfg.TopK)

		// Classify concurrently, then accumulate in ranked order so the
		// supporting/refuting slices keep their relevance ordering.
		results := make([]model.Entailment, len(top))
		skipped := make([]bool, len(top))
		var wg sync.WaitGroup
		semaphore := make(chan struct{}, e.workers)
		for i, rec := range top {
			if !IsTemporallyValid(t.claim, rec.Snippet) {
				skipped[i] = true
				continue
			}
			wg.Add(1)
			go func(idx int, snippet string) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()
				results[idx] = e.classifier.Classify(ctx, t.claim, snippet)
			}(i, rec.Snippet)
		}
		wg.Wait()

		for i, rec := range top {
			if skipped[i] {
				continue
			}
			impact := rec.Authority * results[i].Confidence
			switch results[i].Label {
			case model.LabelEntail:
				t.supportScore += impact
				t.supporting = append(t.supporting, rec)
			case model.LabelContra:
				t.refuteScore += impact
				t.refuting = append(t.refuting, rec)
			}
		}
		return nil
	}
}

// authorityOverride lets a single top-tier source decide outright.
// Refutation wins over support at this tier. The comparison is exact:
// override power is reserved for the discrete official tier, never a
// threshold.
func (e *Engine) authorityOverride(t *tally) *model.Decision {
	for _, rec := range t.refuting {
		if rec.Authority == authority.TierOfficial {
			return &model.Decision{
				Status:   model.VerdictFalse,
				Reason:   "Officially debunked by government/authoritative source.",
				Evidence: head(t.refuting, 2),
			}
		}
	}
	for _, rec := range t.supporting {
		if rec.Authority == authority.TierOfficial {
			return &model.Decision{
				Status:   model.VerdictTrue,
				Reason:   "Confirmed by official government/authoritative source.",
				Evidence: head(t.supporting, 2),
			}
		}
	}
	return nil
}

func (e *Engine) insufficientEvidence(t *tally) *model.Decision {
	if t.supportScore < e.cfg.MinSignal && t.refuteScore < e.cfg.MinSignal {
		return &model.Decision{
			Status:   model.VerdictInsufficient,
			Reason:   "No reliable matching evidence found in current timeframe.",
			Evidence: []model.EvidenceRecord{},
		}
	}
	return nil
}

// extraordinaryClaimGate raises the burden of proof for sensationalist
// claims: extraordinary claims need extraordinary evidence.
func (e *Engine) extraordinaryClaimGate(t *tally) *model.Decision {
	if !query.IsExtreme(t.claim) {
		return nil
	}
	if t.supportScore < e.cfg.BurdenExtraordinary {
		return &model.Decision{
			Status:   model.VerdictUnverified,
			Reason:   "Claim contains extreme language but lacks high-authority consensus.",
			Evidence: head(t.supporting, 2),
		}
	}
	return nil
}

func (e *Engine) marginDecision(t *tally) *model.Decision {
	if t.supportScore > t.refuteScore+e.cfg.DecisionMargin {
		return &model.Decision{
			Status:   model.VerdictTrue,
			Reason:   "Consensus of sources supports this claim.",
			Evidence: head(t.supporting, 2),
		}
	}
	if t.refuteScore > t.supportScore+e.cfg.DecisionMargin {
		return &model.Decision{
			Status:   model.VerdictFalse,
			Reason:   "Multiple sources contradict this claim.",
			Evidence: head(t.refuting, 2),
		}
	}
	return nil
}

func head(records []model.EvidenceRecord, n int) []model.EvidenceRecord {
	if len(records) > n {
		records = records[:n]
	}
	out := make([]model.EvidenceRecord, len(records))
	copy(out, records)
	return out
}
