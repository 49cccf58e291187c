package verdict

import (
	"context"
	"sync"
	"testing"

	"github.com/factlens/factlens/internal/model"
)

// scriptedClassifier returns a fixed entailment per snippet.
type scriptedClassifier struct {
	bySnippet map[string]model.Entailment
	mu        sync.Mutex
	calls     int
}

func (s *scriptedClassifier) Classify(_ context.Context, _, snippet string) model.Entailment {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if e, ok := s.bySnippet[snippet]; ok {
		return e
	}
	return model.Entailment{Label: model.LabelNeutral, Confidence: 0}
}

func newTestEngine(classifier EntailmentClassifier) *Engine {
	return NewEngine(classifier, model.DefaultConfig().Engine, 2)
}

func record(domain, title, snippet string, auth float64) model.EvidenceRecord {
	return model.EvidenceRecord{
		URL:       "https://" + domain + "/x",
		Domain:    domain,
		Title:     title,
		Snippet:   snippet,
		Authority: auth,
	}
}

func TestDerive_SafetyOverride(t *testing.T) {
	classifier := &scriptedClassifier{bySnippet: map[string]model.Entailment{
		// Even a strong entailment must not matter here.
		"otp details": {Label: model.LabelEntail, Confidence: 0.99},
	}}
	engine := newTestEngine(classifier)

	evidence := []model.EvidenceRecord{
		record("news.example.com", "Scam alert: OTP fraud calls", "otp details", 0.3),
		record("other.example.com", "Unrelated story", "nothing", 0.3),
	}
	decision := engine.Derive(context.Background(), model.NewClaim("I received a call asking for my OTP"), evidence)

	if decision.Status != model.VerdictScam {
		t.Fatalf("expected scam verdict, got %v", decision.Status)
	}
	if classifier.calls != 0 {
		t.Errorf("safety override must bypass scoring, saw %d classifier calls", classifier.calls)
	}
	if len(decision.Evidence) != 1 || decision.Evidence[0].Domain != "news.example.com" {
		t.Errorf("expected the scam-titled evidence, got %+v", decision.Evidence)
	}
}

func TestDerive_SafetyNeedsBothSignals(t *testing.T) {
	engine := newTestEngine(&scriptedClassifier{})

	// Safety trigger but no scam-titled evidence: falls through to scoring.
	evidence := []model.EvidenceRecord{
		record("a.example.com", "Ordinary title", "nothing", 0.3),
	}
	decision := engine.Derive(context.Background(), model.NewClaim("I received a call about my account"), evidence)
	if decision.Status == model.VerdictScam {
		t.Error("scam verdict without scam-titled evidence")
	}

	// Scam-titled evidence but no safety trigger in the claim.
	evidence = []model.EvidenceRecord{
		record("b.example.com", "Scam roundup", "nothing", 0.3),
	}
	decision = engine.Derive(context.Background(), model.NewClaim("the sky is blue"), evidence)
	if decision.Status == model.VerdictScam {
		t.Error("scam verdict without a safety trigger in the claim")
	}
}

func TestDerive_AuthorityOverride_RefuteWins(t *testing.T) {
	classifier := &scriptedClassifier{bySnippet: map[string]model.Entailment{
		"gov refutes":  {Label: model.LabelContra, Confidence: 0.9},
		"gov supports": {Label: model.LabelEntail, Confidence: 0.9},
	}}
	engine := newTestEngine(classifier)

	evidence := []model.EvidenceRecord{
		record("health.gov", "Official statement", "gov supports", 1.0),
		record("cdc.gov", "Official correction", "gov refutes", 1.0),
	}
	decision := engine.Derive(context.Background(), model.NewClaim("some health claim"), evidence)

	if decision.Status != model.VerdictFalse {
		t.Fatalf("refuting official source must win, got %v", decision.Status)
	}
	if decision.Reason != "Officially debunked by government/authoritative source." {
		t.Errorf("unexpected reason: %q", decision.Reason)
	}
}

func TestDerive_AuthorityOverride_ExactTierOnly(t *testing.T) {
	classifier := &scriptedClassifier{bySnippet: map[string]model.Entailment{
		"wire refutes": {Label: model.LabelContra, Confidence: 1.0},
	}}
	engine := newTestEngine(classifier)

	// 0.85 authority refutation is strong but not an override; it decides
	// via the margin rule instead.
	evidence := []model.EvidenceRecord{
		record("reuters.com", "Fact check", "wire refutes", 0.85),
	}
	decision := engine.Derive(context.Background(), model.NewClaim("some claim"), evidence)

	if decision.Status != model.VerdictFalse {
		t.Fatalf("expected FALSE, got %v", decision.Status)
	}
	if decision.Reason != "Multiple sources contradict this claim." {
		t.Errorf("established tier must not use the override reason, got %q", decision.Reason)
	}
}

func TestDerive_InsufficientEvidence(t *testing.T) {
	engine := newTestEngine(&scriptedClassifier{}) // everything NEUTRAL/0

	decision := engine.Derive(context.Background(), model.NewClaim("an unremarkable claim"), nil)
	if decision.Status != model.VerdictInsufficient {
		t.Fatalf("empty evidence must be INSUFFICIENT_EVIDENCE, got %v", decision.Status)
	}
	if len(decision.Evidence) != 0 {
		t.Errorf("insufficient verdict carries no evidence, got %d", len(decision.Evidence))
	}
}

func TestDerive_ExtraordinaryClaimGate(t *testing.T) {
	classifier := &scriptedClassifier{bySnippet: map[string]model.Entailment{
		"weak support": {Label: model.LabelEntail, Confidence: 1.0},
	}}
	engine := newTestEngine(classifier)

	// support_score = 0.85, well below the 1.5 burden, no official tier.
	evidence := []model.EvidenceRecord{
		record("reuters.com", "Report", "weak support", 0.85),
	}
	decision := engine.Derive(context.Background(), model.NewClaim("Trees exploded overnight, 100% proof"), evidence)

	if decision.Status != model.VerdictUnverified {
		t.Fatalf("extreme claim below burden must be UNVERIFIED / EXAGGERATED, got %v", decision.Status)
	}
}

func TestDerive_ExtremeClaimNeverTrueBelowBurden(t *testing.T) {
	classifier := &scriptedClassifier{bySnippet: map[string]model.Entailment{
		"s1": {Label: model.LabelEntail, Confidence: 0.8},
		"s2": {Label: model.LabelEntail, Confidence: 0.7},
	}}
	engine := newTestEngine(classifier)

	// support_score = 0.85*0.8 + 0.85*0.7 = 1.275 < 1.5, no official tier.
	evidence := []model.EvidenceRecord{
		record("reuters.com", "A", "s1", 0.85),
		record("bbc.com", "B", "s2", 0.85),
	}
	decision := engine.Derive(context.Background(), model.NewClaim("a miracle cure was proven overnight"), evidence)

	if decision.Status == model.VerdictTrue {
		t.Fatal("extreme claim below burden returned TRUE")
	}
	if decision.Status != model.VerdictUnverified {
		t.Fatalf("expected UNVERIFIED / EXAGGERATED, got %v", decision.Status)
	}
}

func TestDerive_MarginDecisions(t *testing.T) {
	tests := []struct {
		supportConf float64
		refuteConf  float64
		expected    model.Verdict
		desc        string
	}{
		{1.0, 0.2, model.VerdictTrue, "support margin"},
		{0.2, 1.0, model.VerdictFalse, "refute margin"},
		{0.8, 0.7, model.VerdictDisputed, "inside margin"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			classifier := &scriptedClassifier{bySnippet: map[string]model.Entailment{
				"support snippet": {Label: model.LabelEntail, Confidence: tt.supportConf},
				"refute snippet":  {Label: model.LabelContra, Confidence: tt.refuteConf},
			}}
			engine := newTestEngine(classifier)

			// Authority 1.0 would trip the override; stay at established tier
			// scaled up so scores clear the minimum-signal floor.
			evidence := []model.EvidenceRecord{
				record("reuters.com", "A", "support snippet", 0.85),
				record("bbc.com", "B", "refute snippet", 0.85),
			}
			decision := engine.Derive(context.Background(), model.NewClaim("an ordinary verifiable claim"), evidence)
			if decision.Status != tt.expected {
				t.Errorf("support=%.2f refute=%.2f: got %v, want %v",
					tt.supportConf*0.85, tt.refuteConf*0.85, decision.Status, tt.expected)
			}
		})
	}
}

func TestDerive_TemporallyStaleSkipped(t *testing.T) {
	classifier := &scriptedClassifier{bySnippet: map[string]model.Entailment{
		"stale coverage from 2021": {Label: model.LabelContra, Confidence: 1.0},
	}}
	engine := newTestEngine(classifier)

	evidence := []model.EvidenceRecord{
		record("reuters.com", "Old report", "stale coverage from 2021", 0.85),
	}
	decision := engine.Derive(context.Background(), model.NewClaim("the rule changed in 2026"), evidence)

	if classifier.calls != 0 {
		t.Errorf("stale snippet must be skipped before classification, saw %d calls", classifier.calls)
	}
	if decision.Status != model.VerdictInsufficient {
		t.Fatalf("only-stale evidence should leave no signal, got %v", decision.Status)
	}
}

func TestDerive_TopKBound(t *testing.T) {
	classifier := &scriptedClassifier{bySnippet: map[string]model.Entailment{}}
	engine := newTestEngine(classifier)

	var evidence []model.EvidenceRecord
	for i := 0; i < 10; i++ {
		evidence = append(evidence, record("d"+string(rune('a'+i))+".com", "T", "snippet", 0.3))
	}
	engine.Derive(context.Background(), model.NewClaim("a claim"), evidence)

	if classifier.calls != 5 {
		t.Errorf("expected exactly TOP_K=5 classifications, got %d", classifier.calls)
	}
}

func TestDerive_EvidenceCapPerBranch(t *testing.T) {
	classifier := &scriptedClassifier{}
	engine := newTestEngine(classifier)

	var evidence []model.EvidenceRecord
	for i := 0; i < 6; i++ {
		evidence = append(evidence, record(
			"s"+string(rune('a'+i))+".com",
			"Scam warning", "snippet", 0.3))
	}
	decision := engine.Derive(context.Background(), model.NewClaim("I received a call about a refund"), evidence)

	if decision.Status != model.VerdictScam {
		t.Fatalf("expected scam verdict, got %v", decision.Status)
	}
	if len(decision.Evidence) != 3 {
		t.Errorf("safety branch carries at most 3 records, got %d", len(decision.Evidence))
	}
}
