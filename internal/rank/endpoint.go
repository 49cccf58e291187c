package rank

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

// EndpointEncoder encodes texts via an Ollama-compatible local
// embeddings endpoint.
type EndpointEncoder struct {
	baseURL    string
	model      string
	httpClient *http.Client
	maxChars   int
}

type endpointEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type endpointEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// NewEndpointEncoder creates an encoder for a local embeddings endpoint.
func NewEndpointEncoder(cfg model.ModelConfig) (*EndpointEncoder, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &EndpointEncoder{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, ""),
			},
		},
		maxChars: cfg.MaxInputChars,
	}, nil
}

// Name returns the provider name.
func (e *EndpointEncoder) Name() string {
	return "endpoint"
}

// Encode encodes each text with one endpoint call per text. The
// endpoint's single-prompt API has no batch form.
func (e *EndpointEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := e.encodeOne(ctx, truncate(text, e.maxChars))
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *EndpointEncoder) encodeOne(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(endpointEmbedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := e.baseURL + "/api/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embeddings endpoint status %d: %s", resp.StatusCode, string(body))
	}

	var parsed endpointEmbedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("embeddings endpoint error: %s", parsed.Error)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("embeddings endpoint returned empty vector")
	}
	return parsed.Embedding, nil
}
