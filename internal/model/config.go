package model

import "time"

// Config is the full engine configuration. Hierarchy (highest to
// lowest priority): CLI flags, FACTLENS_* environment variables,
// ~/.factlens/config.yaml, the defaults below.
type Config struct {
	Search      SearchConfig      `yaml:"search" json:"search"`
	Embedding   ModelConfig       `yaml:"embedding" json:"embedding"`
	NLI         ModelConfig       `yaml:"nli" json:"nli"`
	Engine      EngineConfig      `yaml:"engine" json:"engine"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// SearchConfig controls the evidence retrieval boundary.
type SearchConfig struct {
	Region        string        `yaml:"region" json:"region"`
	MaxEvidence   int           `yaml:"max_evidence" json:"max_evidence"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" json:"respect_robots"`
	RatePerSecond float64       `yaml:"rate_per_second" json:"rate_per_second"`
	RateBurst     int           `yaml:"rate_burst" json:"rate_burst"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy       string        `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
}

// ModelConfig describes one inference backend (embedding or NLI).
type ModelConfig struct {
	Provider      string        `yaml:"provider" json:"provider"` // "openai" or "endpoint"
	Model         string        `yaml:"model" json:"model"`
	APIKey        string        `yaml:"api_key,omitempty" json:"-"`
	BaseURL       string        `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	MaxInputChars int           `yaml:"max_input_chars" json:"max_input_chars"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
}

// EngineConfig holds the decision-policy knobs. The defaults reproduce
// the published policy; changing them changes verdict semantics.
type EngineConfig struct {
	TopK                int     `yaml:"top_k" json:"top_k"`
	MinSignal           float64 `yaml:"min_signal" json:"min_signal"`
	BurdenExtraordinary float64 `yaml:"burden_extraordinary" json:"burden_extraordinary"`
	DecisionMargin      float64 `yaml:"decision_margin" json:"decision_margin"`
}

// ConcurrencyConfig bounds parallel work.
type ConcurrencyConfig struct {
	ClassifyWorkers int `yaml:"classify_workers" json:"classify_workers"`
	BatchWorkers    int `yaml:"batch_workers" json:"batch_workers"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
	Pretty  bool `yaml:"pretty" json:"pretty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Region:        "in-en",
			MaxEvidence:   15,
			Timeout:       15 * time.Second,
			UserAgent:     "FactLens/0.1 (+https://github.com/factlens/factlens)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
			RatePerSecond: 1,
			RateBurst:     3,
		},
		Embedding: ModelConfig{
			Provider:      "openai",
			Model:         "text-embedding-3-small",
			Timeout:       30 * time.Second,
			MaxInputChars: 2000,
		},
		NLI: ModelConfig{
			Provider:      "endpoint",
			Model:         "roberta-large-mnli",
			Timeout:       30 * time.Second,
			MaxInputChars: 2000,
		},
		Engine: EngineConfig{
			TopK:                5,
			MinSignal:           0.3,
			BurdenExtraordinary: 1.5,
			DecisionMargin:      0.5,
		},
		Concurrency: ConcurrencyConfig{
			ClassifyWorkers: 3,
			BatchWorkers:    4,
		},
		Output: OutputConfig{
			Pretty: true,
		},
	}
}
