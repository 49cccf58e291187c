package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/factlens/factlens/internal/pipeline"
	"github.com/factlens/factlens/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple claims from a file in parallel",
	Long: `Batch verifies multiple claims concurrently:
- Read claims from input file (one per line, '#' lines skipped)
- Verify claims in parallel with configurable worker count
- Each verification runs the full retrieval and verdict pipeline
- Write one JSON result per claim to the output directory

Example:
  factlens batch claims.txt
  factlens batch claims.txt --concurrency 8 --output-dir ./verdicts
  factlens batch claims.txt --nli-provider openai --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./factlens-results", "output directory for result JSON files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "total timeout for batch processing")

	// Shared with the check command
	batchCmd.Flags().StringVar(&region, "region", "in-en", "search region code")
	batchCmd.Flags().IntVar(&maxEvidence, "max-evidence", 15, "max unique-domain evidence records per claim")
	batchCmd.Flags().StringVar(&userAgent, "ua", "FactLens/0.1 (+https://github.com/factlens/factlens)", "HTTP User-Agent")
	batchCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	batchCmd.Flags().StringVar(&embedProvider, "embed-provider", "openai", "embedding provider (openai, endpoint)")
	batchCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-3-small", "embedding model name")
	batchCmd.Flags().StringVar(&nliProvider, "nli-provider", "endpoint", "NLI provider (endpoint, openai)")
	batchCmd.Flags().StringVar(&nliModel, "nli-model", "roberta-large-mnli", "NLI model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = concurrency

	fmt.Fprintf(os.Stderr, "Input file:  %s\n", file)
	fmt.Fprintf(os.Stderr, "Workers:     %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "Output dir:  %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "Timeout:     %v\n", batchTimeout)
	fmt.Fprintln(os.Stderr)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	written := 0
	failed := 0
	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %q: %v\n", result.Claim, result.Error)
			continue
		}

		data, err := renderResult(result.Result, true)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %q: render: %v\n", result.Claim, err)
			continue
		}

		path := filepath.Join(outputDir, claimSlug(result.Claim)+".json")
		if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %q: write: %v\n", result.Claim, err)
			continue
		}

		written++
		fmt.Fprintf(os.Stderr, "%-28s %q\n", result.Result.Verdict, result.Claim)
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Total:    %d claims\n", len(results))
	fmt.Fprintf(os.Stderr, "Written:  %d\n", written)
	fmt.Fprintf(os.Stderr, "Failed:   %d\n", failed)
	fmt.Fprintf(os.Stderr, "Output:   %s\n", outputDir)

	return nil
}

// claimSlug turns a claim into a safe, bounded filename stem.
func claimSlug(claim string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(claim) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "claim"
	}
	if len(slug) > 80 {
		slug = strings.TrimSuffix(slug[:80], "-")
	}
	return slug
}
