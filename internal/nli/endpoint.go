package nli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/util"
)

// segmentSeparator joins premise and hypothesis into the two-segment
// input the MNLI-family models expect.
const segmentSeparator = " </s></s> "

// defaultEndpointBaseURL is the hosted HuggingFace inference API.
const defaultEndpointBaseURL = "https://api-inference.huggingface.co"

// EndpointProvider calls a HuggingFace-style text-classification
// inference endpoint.
type EndpointProvider struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	maxChars   int
}

type endpointInferRequest struct {
	Inputs string `json:"inputs"`
}

// classification is the fixed result shape every response is normalized
// into before any other logic inspects it.
type classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewEndpointProvider creates an NLI provider for an inference endpoint.
func NewEndpointProvider(cfg model.ModelConfig) (*EndpointProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultEndpointBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	maxChars := cfg.MaxInputChars
	if maxChars <= 0 {
		maxChars = 2000
	}

	return &EndpointProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, ""),
			},
		},
		maxChars: maxChars,
	}, nil
}

// Name returns the provider name.
func (p *EndpointProvider) Name() string {
	return "endpoint"
}

// Infer classifies one (premise, hypothesis) pair. The two segments are
// joined with the model separator and the combined input is truncated
// to the configured maximum before sending.
func (p *EndpointProvider) Infer(ctx context.Context, premise, hypothesis string) (string, float64, error) {
	input := premise + segmentSeparator + hypothesis
	if runes := []rune(input); len(runes) > p.maxChars {
		input = string(runes[:p.maxChars])
	}

	payload, err := json.Marshal(endpointInferRequest{Inputs: input})
	if err != nil {
		return "", 0, fmt.Errorf("marshal request: %w", err)
	}

	url := p.baseURL + "/models/" + p.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("inference request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("inference endpoint status %d: %s", resp.StatusCode, string(body))
	}

	top, err := normalizeResponse(body)
	if err != nil {
		return "", 0, err
	}
	return top.Label, top.Score, nil
}

// normalizeResponse accepts the endpoint's heterogeneous shapes (a
// single object, a list of candidates, or a nested list of candidate
// lists) and returns the top candidate.
func normalizeResponse(body []byte) (classification, error) {
	var single classification
	if err := json.Unmarshal(body, &single); err == nil && single.Label != "" {
		return single, nil
	}

	var list []classification
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 && list[0].Label != "" {
		return best(list), nil
	}

	var nested [][]classification
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return best(nested[0]), nil
	}

	return classification{}, fmt.Errorf("unrecognized inference response: %s", string(body))
}

func best(candidates []classification) classification {
	top := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > top.Score {
			top = c
		}
	}
	return top
}
