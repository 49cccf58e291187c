package model

// EvidenceRecord is one deduplicated search result annotated with
// authority, similarity, and fused relevance. URL, Domain, Title,
// Snippet, and Authority are set by the retriever; Similarity and
// RelevanceScore are filled in by the ranker.
type EvidenceRecord struct {
	URL            string  `json:"url"`
	Domain         string  `json:"domain"`
	Title          string  `json:"title"`
	Snippet        string  `json:"snippet"`
	Authority      float64 `json:"authority"`
	Similarity     float64 `json:"similarity"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Verdict is the graded status assigned to a claim.
type Verdict string

const (
	VerdictTrue         Verdict = "TRUE"
	VerdictFalse        Verdict = "FALSE"
	VerdictDisputed     Verdict = "DISPUTED"
	VerdictInsufficient Verdict = "INSUFFICIENT_EVIDENCE"
	VerdictUnverified   Verdict = "UNVERIFIED / EXAGGERATED"
	VerdictScam         Verdict = "HIGH RISK / SCAM"
)

// Decision is the outcome of the verdict derivation engine: a status, a
// human-readable reason, and the literal evidence that produced it
// (at most three records). Immutable once returned.
type Decision struct {
	Status   Verdict          `json:"status"`
	Reason   string           `json:"reason"`
	Evidence []EvidenceRecord `json:"evidence"`
}

// EntailmentLabel is the NLI judgment of evidence against a claim.
type EntailmentLabel string

const (
	LabelEntail  EntailmentLabel = "ENTAIL"
	LabelContra  EntailmentLabel = "CONTRA"
	LabelNeutral EntailmentLabel = "NEUTRAL"
)

// Entailment pairs an NLI label with the model's confidence in [0,1].
type Entailment struct {
	Label      EntailmentLabel `json:"label"`
	Confidence float64         `json:"confidence"`
}
