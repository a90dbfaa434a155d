package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/leenscore/leenscore/internal/model"
)

// Analyzer defines the interface for running a single analysis
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.NormalizedResult, error)
}

// AnalysisJob runs one submission through the analyzer
type AnalysisJob struct {
	Request  model.AnalysisRequest
	Analyzer Analyzer
}

// Execute runs the analysis job
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.Analyze(ctx, j.Request)
	return &AnalysisResult{
		Request: j.Request,
		Result:  result,
		Error:   err,
	}
}

// AnalysisResult is the outcome of one batch submission
type AnalysisResult struct {
	Request model.AnalysisRequest
	Result  *model.NormalizedResult
	Error   error
}

// GetError returns the error from the analysis result
func (r *AnalysisResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple submissions concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessRequests analyzes the given submissions concurrently
func (b *BatchProcessor) ProcessRequests(ctx context.Context, requests []model.AnalysisRequest) []*AnalysisResult {
	if len(requests) == 0 {
		return []*AnalysisResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, req := range requests {
		pool.Submit(&AnalysisJob{
			Request:  req,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	analysisResults := make([]*AnalysisResult, len(results))
	for i, result := range results {
		analysisResults[i] = result.(*AnalysisResult)
	}

	return analysisResults
}

// ProcessFile reads URLs from a file (one per line) and analyzes them
// concurrently in the given language
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath, language string) ([]*AnalysisResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	requests := make([]model.AnalysisRequest, len(urls))
	for i, u := range urls {
		requests[i] = model.AnalysisRequest{
			URL:          u,
			Language:     language,
			AnalysisType: model.AnalysisTypeURL,
		}
	}

	return b.ProcessRequests(ctx, requests), nil
}

// ReadURLsFromFile reads URLs from a file, one per line, skipping blanks and
// comments and deduplicating
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
