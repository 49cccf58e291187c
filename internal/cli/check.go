package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON       string
	compact       bool
	checkTimeout  time.Duration
	region        string
	maxEvidence   int
	userAgent     string
	maxBytes      int64
	noRobots      bool
	httpProxy     string
	httpsProxy    string
	embedProvider string
	embedModel    string
	nliProvider   string
	nliModel      string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Verify a single claim against live web evidence",
	Long: `Check runs the full verification pipeline for one claim:
- Optimize the claim into a search query (with scam-intent detection)
- Retrieve and deduplicate web evidence, one source per domain
- Score domain authority and rank evidence by semantic relevance
- Classify entailment between each snippet and the claim
- Derive a verdict through the fixed decision-rule priority

The result is printed as JSON with a transparency trail of every
source the verdict rested on.

Example:
  factlens check "Drinking hot water cures cancer overnight"
  factlens check "The WHO declared X in 2024" --nli-provider openai
  factlens check "I received a call asking for my OTP" --json result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "also write result JSON to this path")
	checkCmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON instead of indented")

	// Search flags
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 90*time.Second, "overall check timeout")
	checkCmd.Flags().StringVar(&region, "region", "in-en", "search region code")
	checkCmd.Flags().IntVar(&maxEvidence, "max-evidence", 15, "max unique-domain evidence records to retrieve")
	checkCmd.Flags().StringVar(&userAgent, "ua", "FactLens/0.1 (+https://github.com/factlens/factlens)", "HTTP User-Agent")
	checkCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	checkCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	checkCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	checkCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Model flags
	checkCmd.Flags().StringVar(&embedProvider, "embed-provider", "openai", "embedding provider (openai, endpoint)")
	checkCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-3-small", "embedding model name")
	checkCmd.Flags().StringVar(&nliProvider, "nli-provider", "endpoint", "NLI provider (endpoint, openai)")
	checkCmd.Flags().StringVar(&nliModel, "nli-model", "roberta-large-mnli", "NLI model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	claim := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", claim)
		fmt.Fprintf(os.Stderr, "Embeddings: %s/%s\n", cfg.Embedding.Provider, cfg.Embedding.Model)
		fmt.Fprintf(os.Stderr, "NLI: %s/%s\n", cfg.NLI.Provider, cfg.NLI.Model)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	result := p.FactCheck(ctx, claim)

	data, err := renderResult(result, !compact)
	if err != nil {
		return fmt.Errorf("render result: %w", err)
	}
	fmt.Println(string(data))

	if outJSON != "" {
		if err := os.WriteFile(outJSON, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("write %s: %w", outJSON, err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", outJSON)
		}
	}

	return nil
}

// buildConfig assembles engine configuration from flags and environment.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Search.Region = region
	cfg.Search.MaxEvidence = maxEvidence
	cfg.Search.UserAgent = userAgent
	cfg.Search.MaxBodyBytes = maxBytes
	cfg.Search.RespectRobots = !noRobots
	cfg.Search.HTTPProxy = httpProxy
	cfg.Search.HTTPSProxy = httpsProxy
	cfg.Embedding.Provider = embedProvider
	cfg.Embedding.Model = embedModel
	cfg.NLI.Provider = nliProvider
	cfg.NLI.Model = nliModel
	cfg.Output.Verbose = verbose
	cfg.Output.Pretty = !compact

	if err := applyModelEnv(&cfg.Embedding, "embedding"); err != nil {
		return nil, err
	}
	if err := applyModelEnv(&cfg.NLI, "NLI"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyModelEnv resolves API keys and base URLs for one model backend
// from the environment.
func applyModelEnv(mc *model.ModelConfig, role string) error {
	switch strings.ToLower(mc.Provider) {
	case "openai":
		mc.APIKey = os.Getenv("OPENAI_API_KEY")
		if mc.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set (required for %s provider openai)", role)
		}
	case "endpoint", "hf", "ollama":
		// Hosted inference endpoints may need a token; local ones do not.
		if tok := os.Getenv("HF_API_TOKEN"); tok != "" && mc.APIKey == "" {
			mc.APIKey = tok
		}
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && mc.BaseURL == "" {
			mc.BaseURL = baseURL
		}
	}
	return nil
}

// renderResult marshals a fact-check result for output.
func renderResult(result *model.FactCheckResult, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}
