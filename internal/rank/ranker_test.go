package rank

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/factlens/factlens/internal/model"
)

// stubEncoder maps exact texts to fixed vectors.
type stubEncoder struct {
	vectors map[string][]float64
	err     error
	calls   int
}

func (s *stubEncoder) Name() string { return "stub" }

func (s *stubEncoder) Encode(_ context.Context, texts []string) ([][]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		vec, ok := s.vectors[t]
		if !ok {
			vec = []float64{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func TestRank_EmptyInput(t *testing.T) {
	ranker := NewRanker(&stubEncoder{}, false)
	if got := ranker.Rank(context.Background(), model.NewClaim("c"), nil); len(got) != 0 {
		t.Fatalf("expected empty output for empty input, got %d", len(got))
	}
}

func TestRank_OrdersByFusedRelevance(t *testing.T) {
	claim := model.NewClaim("the earth orbits the sun")
	encoder := &stubEncoder{vectors: map[string][]float64{
		claim.String():       {1, 0, 0},
		"close : match":      {0.9, 0.1, 0}, // high similarity, low authority
		"weak : match":       {0.5, 0.5, 0}, // lower similarity, top authority
		"unrelated : noise":  {0, 1, 0},
	}}
	evidence := []model.EvidenceRecord{
		{Domain: "blog.example.com", Title: "close", Snippet: "match", Authority: 0.3},
		{Domain: "cdc.gov", Title: "weak", Snippet: "match", Authority: 1.0},
		{Domain: "noise.example.com", Title: "unrelated", Snippet: "noise", Authority: 0.3},
	}

	ranked := NewRanker(encoder, false).Rank(context.Background(), claim, evidence)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ranked))
	}

	// close: sim≈0.994 * 1.3 ≈ 1.29; weak: sim≈0.707 * 2.0 ≈ 1.41
	if ranked[0].Domain != "cdc.gov" {
		t.Errorf("authority boost should rank the official source first, got %q", ranked[0].Domain)
	}
	if ranked[2].Domain != "noise.example.com" {
		t.Errorf("unrelated record should rank last, got %q", ranked[2].Domain)
	}

	for _, rec := range ranked {
		want := rec.Similarity * (1 + rec.Authority)
		if math.Abs(rec.RelevanceScore-want) > 1e-9 {
			t.Errorf("relevance %v != similarity*(1+authority) %v", rec.RelevanceScore, want)
		}
	}
}

func TestRank_StableForTies(t *testing.T) {
	claim := model.NewClaim("claim")
	encoder := &stubEncoder{vectors: map[string][]float64{}} // everything identical
	evidence := []model.EvidenceRecord{
		{Domain: "a.com", Title: "a", Authority: 0.3},
		{Domain: "b.com", Title: "b", Authority: 0.3},
		{Domain: "c.com", Title: "c", Authority: 0.3},
	}

	first := NewRanker(encoder, false).Rank(context.Background(), claim, evidence)
	second := NewRanker(encoder, false).Rank(context.Background(), claim, evidence)
	for i := range first {
		if first[i].Domain != evidence[i].Domain {
			t.Errorf("tie broke input order at %d: %q", i, first[i].Domain)
		}
		if first[i].Domain != second[i].Domain {
			t.Errorf("re-ranking identical input changed order at %d", i)
		}
	}
}

func TestRank_EncoderFailureDegrades(t *testing.T) {
	encoder := &stubEncoder{err: errors.New("model down")}
	evidence := []model.EvidenceRecord{
		{Domain: "a.com", Authority: 0.85},
		{Domain: "b.com", Authority: 0.3},
	}

	ranked := NewRanker(encoder, false).Rank(context.Background(), model.NewClaim("c"), evidence)
	if len(ranked) != 2 {
		t.Fatalf("expected records preserved on encoder failure, got %d", len(ranked))
	}
	for i, rec := range ranked {
		if rec.Similarity != 0 || rec.RelevanceScore != 0 {
			t.Errorf("expected zeroed scores on failure, got %+v", rec)
		}
		if rec.Domain != evidence[i].Domain {
			t.Errorf("input order not preserved on failure at %d", i)
		}
	}
}

func TestRank_ComparisonStringShape(t *testing.T) {
	var captured []string
	encoder := &captureEncoder{capture: &captured}
	evidence := []model.EvidenceRecord{{Title: "Headline", Snippet: "Body text"}}

	NewRanker(encoder, false).Rank(context.Background(), model.NewClaim("claim text"), evidence)
	if len(captured) != 2 {
		t.Fatalf("expected claim + 1 comparison string, got %d", len(captured))
	}
	if captured[0] != "claim text" {
		t.Errorf("first text should be the claim, got %q", captured[0])
	}
	if captured[1] != "Headline : Body text" {
		t.Errorf("comparison string shape wrong: %q", captured[1])
	}
}

type captureEncoder struct {
	capture *[]string
}

func (c *captureEncoder) Name() string { return "capture" }

func (c *captureEncoder) Encode(_ context.Context, texts []string) ([][]float64, error) {
	*c.capture = append(*c.capture, texts...)
	out := make([][]float64, len(texts))
	for i := range out {
		out[i] = []float64{1, 0}
	}
	return out, nil
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		a, b     []float64
		expected float64
		desc     string
	}{
		{[]float64{1, 0}, []float64{1, 0}, 1, "identical"},
		{[]float64{1, 0}, []float64{0, 1}, 0, "orthogonal"},
		{[]float64{1, 0}, []float64{-1, 0}, -1, "opposite"},
		{[]float64{0, 0}, []float64{1, 0}, 0, "zero magnitude"},
		{[]float64{1, 0}, []float64{1, 0, 0}, 0, "dimension mismatch"},
		{nil, nil, 0, "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 3); got != "hel" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("hello", 0); got != "hello" {
		t.Errorf("zero max should not truncate, got %q", got)
	}
	if got := truncate(strings.Repeat("é", 10), 4); len([]rune(got)) != 4 {
		t.Errorf("rune-aware truncation failed: %q", got)
	}
}
