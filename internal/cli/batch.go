package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leenscore/leenscore/internal/analyze"
	"github.com/leenscore/leenscore/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchLang    string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple URLs from a file in parallel",
	Long: `Batch reads URLs from a file (one per line, # comments allowed) and
analyzes them concurrently, writing one result JSON per URL.

Example:
  leenscore batch urls.txt
  leenscore batch urls.txt --concurrency 4 --output-dir ./results --lang fr`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./leenscore-results", "output directory for result JSON files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchLang, "lang", "en", "result language")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()

	analyzer, err := analyze.New(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(analyzer, concurrency)

	fmt.Fprintf(os.Stderr, "Processing %s with %d workers...\n", file, concurrency)
	results, err := processor.ProcessFile(ctx, file, batchLang)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", result.Request.URL, result.Error)
			continue
		}
		successCount++

		path := filepath.Join(outputDir, urlSlug(result.Request.URL)+".json")
		if err := writeResultJSON(result.Result, path); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", result.Request.URL, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "OK   %s (score: %d/100, %s)\n", result.Request.URL, result.Result.Score, result.Result.Status)
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d analyzed, %d failed, results in %s\n", successCount, failureCount, outputDir)
	return nil
}

// urlSlug derives a filesystem-safe name from a URL
func urlSlug(rawURL string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	replacer := strings.NewReplacer("/", "_", ":", "_", "?", "_", "&", "_", "#", "_", "=", "_", " ", "-")
	s = replacer.Replace(s)
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
