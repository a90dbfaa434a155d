package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leenscore/leenscore/internal/analyze"
	"github.com/leenscore/leenscore/internal/model"
)

var (
	analyzeLang      string
	secondaryLang    string
	analyzeImageURL  string
	analyzeTimeout   time.Duration
	outJSON          string
	noCache          bool
	analyzeEngineURL string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <text or URL>",
	Short: "Analyze content credibility and print the scored result",
	Long: `Analyze submits text, a URL, or an uploaded screenshot URL and prints
the normalized credibility result: overall score, sub-score breakdown,
source buckets, key-point counters, and the derived verdict.

Example:
  leenscore analyze "Drinking seawater cures headaches"
  leenscore analyze https://example.com/article --lang fr
  leenscore analyze --image-url https://cdn.example.com/shot.jpg
  leenscore analyze "..." --secondary-lang fr --json result.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeLang, "lang", "en", "result language")
	analyzeCmd.Flags().StringVar(&secondaryLang, "secondary-lang", "", "additional result language, fetched concurrently with reconciled numbers")
	analyzeCmd.Flags().StringVar(&analyzeImageURL, "image-url", "", "analyze a screenshot by URL instead of text")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the full result JSON to this path")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	analyzeCmd.Flags().StringVar(&analyzeEngineURL, "engine-url", "", "IA11 scoring engine base URL")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && analyzeImageURL == "" {
		return fmt.Errorf("provide text, a URL, or --image-url")
	}

	cfg := loadConfig()
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	if analyzeEngineURL != "" {
		cfg.Engine.BaseURL = analyzeEngineURL
	}

	req := model.AnalysisRequest{
		Language: analyzeLang,
		ImageURL: analyzeImageURL,
	}
	if len(args) == 1 {
		input := strings.TrimSpace(args[0])
		if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
			req.URL = input
		} else {
			req.Content = input
		}
	}

	analyzer, err := analyze.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing (%s): %s%s%s\n", req.Kind(), req.Content, req.URL, req.ImageURL)
	}

	var result, secondary *model.NormalizedResult
	if secondaryLang != "" && secondaryLang != analyzeLang {
		result, secondary, err = analyzer.AnalyzeDual(ctx, req, analyzeLang, secondaryLang)
	} else {
		result, err = analyzer.Analyze(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printSummary(result)
	if secondary != nil {
		fmt.Printf("\n[%s] %s: %s\n", secondaryLang, secondary.Badge, secondary.Summary)
	}

	if outJSON != "" {
		if err := writeResultJSON(result, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}

	return nil
}

// printSummary renders the normalized result for the terminal
func printSummary(r *model.NormalizedResult) {
	fmt.Printf("Credibility score: %d/100\n", r.Score)
	fmt.Printf("Status:            %s (%s)\n", r.Status, r.Badge)
	fmt.Printf("Breakdown:         access %d | language %d | evidence %d | technical %d\n",
		r.Breakdown.Access, r.Breakdown.Language, r.Breakdown.Evidence, r.Breakdown.Technical)
	fmt.Printf("Key points:        %d confirmed, %d uncertain, %d contradicted\n",
		r.Counters.Confirmed, r.Counters.Uncertain, r.Counters.Contradicted)
	fmt.Printf("Web evidence:      %s (%d sources)\n", r.WebEvidence, r.SourceCount)

	if r.Summary != "" {
		fmt.Printf("\n%s\n", r.Summary)
	}
	for _, src := range r.Buckets.Corroborate {
		fmt.Printf("  + %s\n", src.URL)
	}
	for _, src := range r.Buckets.Contradict {
		fmt.Printf("  - %s\n", src.URL)
	}
	for _, src := range r.Buckets.Neutral {
		fmt.Printf("  · %s\n", src.URL)
	}
}

// writeResultJSON writes the full normalized result to a file
func writeResultJSON(r *model.NormalizedResult, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
