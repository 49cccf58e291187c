package nli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/factlens/factlens/internal/model"
)

// chatClient mirrors the subset of the OpenAI client we need, so tests
// can stub the API.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider performs NLI through a chat model constrained to a
// JSON verdict. Used where no dedicated NLI endpoint is available.
type OpenAIProvider struct {
	client   chatClient
	model    string
	maxChars int
}

const nliSystemPrompt = `You are a natural language inference classifier.
Given a premise and a hypothesis, decide whether the premise entails,
contradicts, or is neutral toward the hypothesis.

Respond with only a JSON object:
{"label": "entailment|contradiction|neutral", "confidence": 0.0-1.0}`

type nliChatResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// NewOpenAIProvider creates a chat-backed NLI provider.
func NewOpenAIProvider(cfg model.ModelConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxChars := cfg.MaxInputChars
	if maxChars <= 0 {
		maxChars = 2000
	}

	return &OpenAIProvider{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    chatModel,
		maxChars: maxChars,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Infer classifies one (premise, hypothesis) pair via chat completion.
func (p *OpenAIProvider) Infer(ctx context.Context, premise, hypothesis string) (string, float64, error) {
	if runes := []rune(premise); len(runes) > p.maxChars {
		premise = string(runes[:p.maxChars])
	}

	user := fmt.Sprintf("Premise: %s\n\nHypothesis: %s", premise, hypothesis)
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: nliSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", 0, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, fmt.Errorf("no response from model")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result nliChatResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return "", 0, fmt.Errorf("parse model output: %w", err)
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return result.Label, result.Confidence, nil
}
