package rank

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/factlens/factlens/internal/model"
)

// Ranker scores evidence records against a claim and orders them by
// fused relevance.
type Ranker struct {
	encoder Encoder
	verbose bool
}

// NewRanker creates a ranker over the given encoder.
func NewRanker(encoder Encoder, verbose bool) *Ranker {
	return &Ranker{encoder: encoder, verbose: verbose}
}

// Rank computes cosine similarity between the claim and each record's
// "{title} : {snippet}" comparison string, fuses it with authority as
// relevance = similarity * (1 + authority), and sorts descending by
// relevance with ties keeping input order. Empty input yields empty
// output. An encoder failure degrades every similarity to zero instead
// of propagating, so ranking never fails the pipeline.
func (r *Ranker) Rank(ctx context.Context, claim model.Claim, evidence []model.EvidenceRecord) []model.EvidenceRecord {
	if len(evidence) == 0 {
		return nil
	}

	texts := make([]string, 0, len(evidence)+1)
	texts = append(texts, claim.String())
	for _, rec := range evidence {
		texts = append(texts, fmt.Sprintf("%s : %s", rec.Title, rec.Snippet))
	}

	vectors, err := r.encoder.Encode(ctx, texts)
	if err != nil || len(vectors) != len(texts) {
		if r.verbose {
			fmt.Fprintf(os.Stderr, "Warning: embedding failed, ranking without similarity: %v\n", err)
		}
		vectors = nil
	}

	ranked := make([]model.EvidenceRecord, len(evidence))
	copy(ranked, evidence)
	for i := range ranked {
		similarity := 0.0
		if vectors != nil {
			similarity = CosineSimilarity(vectors[0], vectors[i+1])
		}
		ranked[i].Similarity = similarity
		ranked[i].RelevanceScore = similarity * (1 + ranked[i].Authority)
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].RelevanceScore > ranked[b].RelevanceScore
	})
	return ranked
}

// CosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched or zero-magnitude vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
