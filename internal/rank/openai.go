package rank

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/factlens/factlens/internal/model"
)

// embeddingClient mirrors the subset of the OpenAI client we need, so
// tests can stub the API.
type embeddingClient interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIEncoder encodes texts with the OpenAI embeddings API.
type OpenAIEncoder struct {
	client   embeddingClient
	model    string
	maxChars int
}

// NewOpenAIEncoder creates a new OpenAI embedding encoder.
func NewOpenAIEncoder(cfg model.ModelConfig) (*OpenAIEncoder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	embModel := cfg.Model
	if embModel == "" {
		embModel = string(openai.SmallEmbedding3)
	}

	return &OpenAIEncoder{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    embModel,
		maxChars: cfg.MaxInputChars,
	}, nil
}

// Name returns the provider name.
func (e *OpenAIEncoder) Name() string {
	return "openai"
}

// Encode batch-encodes the texts in one API call.
func (e *OpenAIEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	input := make([]string, len(texts))
	for i, t := range texts {
		input[i] = truncate(t, e.maxChars)
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: input,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float64, len(resp.Data))
	for i, item := range resp.Data {
		vec := make([]float64, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
