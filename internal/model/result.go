package model

// AlgorithmVersion identifies the decision policy that produced a result.
const AlgorithmVersion = "v4.1-safety"

// TrailEntry is one transparency-trail item: the literal excerpt behind
// the verdict, attributed to its source domain.
type TrailEntry struct {
	Source        string `json:"source"`
	AuthorityTier string `json:"authority_tier"` // "High" or "General"
	Excerpt       string `json:"excerpt"`
	URL           string `json:"url"`
}

// Meta carries per-request diagnostics.
type Meta struct {
	Latency          float64 `json:"latency"` // seconds, rounded to 2 decimals
	SourcesScanned   int     `json:"sources_scanned"`
	AlgorithmVersion string  `json:"algorithm_version"`
}

// FactCheckResult is the external response contract for one claim.
type FactCheckResult struct {
	ClaimAnalyzed     string       `json:"claim_analyzed"`
	Verdict           Verdict      `json:"verdict"`
	Summary           string       `json:"summary"`
	TransparencyTrail []TrailEntry `json:"transparency_trail"`
	Meta              Meta         `json:"meta"`
}
