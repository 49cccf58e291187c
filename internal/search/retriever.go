package search

import (
	"context"
	"fmt"
	"os"

	"github.com/factlens/factlens/internal/authority"
	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/query"
)

// Retriever turns a claim into a batch of deduplicated, authority-scored
// evidence records. Provider failures degrade to an empty batch; they
// never propagate.
type Retriever struct {
	provider    Provider
	region      string
	maxEvidence int
	verbose     bool
}

// NewRetriever creates a retriever over the given provider.
func NewRetriever(provider Provider, cfg model.SearchConfig, verbose bool) *Retriever {
	maxEvidence := cfg.MaxEvidence
	if maxEvidence <= 0 {
		maxEvidence = 15
	}
	return &Retriever{
		provider:    provider,
		region:      cfg.Region,
		maxEvidence: maxEvidence,
		verbose:     verbose,
	}
}

// Retrieve optimizes the claim into a search query, issues one provider
// call, and shapes the hits into evidence records. Within one call the
// first hit per domain wins; hits without a URL are skipped.
func (r *Retriever) Retrieve(ctx context.Context, claim model.Claim) []model.EvidenceRecord {
	optimized, _ := query.Optimize(claim.String())

	hits, err := r.provider.Search(ctx, optimized, r.region, r.maxEvidence)
	if err != nil {
		if r.verbose {
			fmt.Fprintf(os.Stderr, "Warning: search failed, degrading to empty evidence: %v\n", err)
		}
		return nil
	}

	seen := make(map[string]bool, len(hits))
	records := make([]model.EvidenceRecord, 0, len(hits))
	for _, hit := range hits {
		if hit.Href == "" {
			continue
		}
		domain := authority.Domain(hit.Href)
		if seen[domain] {
			continue
		}
		seen[domain] = true

		records = append(records, model.EvidenceRecord{
			URL:       hit.Href,
			Domain:    domain,
			Title:     hit.Title,
			Snippet:   hit.Body,
			Authority: authority.ScoreDomain(domain),
		})
		if len(records) >= r.maxEvidence {
			break
		}
	}
	return records
}
