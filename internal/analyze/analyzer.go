package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/leenscore/leenscore/internal/cache"
	"github.com/leenscore/leenscore/internal/engine"
	"github.com/leenscore/leenscore/internal/fetch"
	"github.com/leenscore/leenscore/internal/i18n"
	"github.com/leenscore/leenscore/internal/model"
	"github.com/leenscore/leenscore/internal/normalize"
	"github.com/leenscore/leenscore/internal/score"
)

// Analyzer orchestrates a complete credibility analysis: URL content fetch,
// LLM analysis, IA11 engine scoring, normalization, and score finalization.
type Analyzer struct {
	provider Provider
	engine   *engine.Client
	fetcher  *fetch.Fetcher
	cache    cache.Cache
	catalogs map[string]i18n.Table
	config   *model.Config
}

// New creates an analyzer from configuration
func New(cfg *model.Config) (*Analyzer, error) {
	apiKey := cfg.LLM.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	providerCfg := ConfigFromModel(cfg.LLM)
	providerCfg.APIKey = apiKey

	provider, err := NewOpenAIProvider(providerCfg)
	if err != nil {
		return nil, fmt.Errorf("create analysis provider: %w", err)
	}

	return NewWithProvider(cfg, provider), nil
}

// NewWithProvider creates an analyzer with an explicit provider, used by
// tests and custom wiring
func NewWithProvider(cfg *model.Config, provider Provider) *Analyzer {
	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			if home, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(home, ".leenscore", "cache")
			}
		}
		if dir != "" {
			resultCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
		} else {
			resultCache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
		}
	}

	return &Analyzer{
		provider: provider,
		engine:   engine.NewClient(cfg.Engine),
		fetcher:  fetch.NewFetcher(cfg.HTTP),
		cache:    resultCache,
		catalogs: i18n.BuiltinCatalogs(),
		config:   cfg,
	}
}

// Engine exposes the engine client for poll-resume lookups
func (a *Analyzer) Engine() *engine.Client {
	return a.engine
}

// Analyze runs a single-language analysis
func (a *Analyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.NormalizedResult, error) {
	if req.Language == "" {
		req.Language = "en"
	}

	cacheKey := cache.Key(req)
	if a.cache != nil {
		if data, found := a.cache.Get(cacheKey); found {
			var cached model.NormalizedResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	providerReq := Request{
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Language: req.Language,
		Kind:     req.Kind(),
	}

	// URL submissions are reduced to text before analysis
	if req.Kind() == model.AnalysisTypeURL {
		page, err := a.fetcher.Fetch(ctx, req.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", req.URL, err)
		}
		providerReq.Content = page.Title + "\n\n" + page.Text
	}

	payload, err := a.provider.Analyze(ctx, providerReq)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	tr := i18n.NewResolver(req.Language, a.catalogs)
	result := normalize.Normalize(payload, tr)

	a.mergeEngineScore(ctx, req, &result)
	score.Finalize(&result)

	if a.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = a.cache.Set(cacheKey, data, 0)
		}
	}

	return &result, nil
}

// AnalyzeDual runs the analysis in two languages concurrently and reconciles
// the headline numbers so both present the same score and breakdown. The
// first language is the master; an error in either fetch fails the pair.
func (a *Analyzer) AnalyzeDual(ctx context.Context, req model.AnalysisRequest, primaryLang, secondaryLang string) (*model.NormalizedResult, *model.NormalizedResult, error) {
	var (
		wg        sync.WaitGroup
		primary   *model.NormalizedResult
		secondary *model.NormalizedResult
		errPri    error
		errSec    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		r := req
		r.Language = primaryLang
		primary, errPri = a.Analyze(ctx, r)
	}()
	go func() {
		defer wg.Done()
		r := req
		r.Language = secondaryLang
		secondary, errSec = a.Analyze(ctx, r)
	}()
	wg.Wait()

	if errPri != nil {
		return nil, nil, errPri
	}
	if errSec != nil {
		return nil, nil, errSec
	}

	score.Reconcile(primary, secondary)
	return primary, secondary, nil
}

// Resume fetches a previously submitted analysis from the engine by id
func (a *Analyzer) Resume(ctx context.Context, id, language string) (*model.NormalizedResult, error) {
	payload, err := a.engine.Analysis(ctx, id)
	if err != nil {
		return nil, err
	}

	tr := i18n.NewResolver(language, a.catalogs)
	result := normalize.Normalize(payload, tr)
	score.Finalize(&result)
	return &result, nil
}

// mergeEngineScore overlays the IA11 engine's numbers onto the LLM result.
// Engine failures are non-fatal: the LLM-only result ships with the error
// recorded in meta.
func (a *Analyzer) mergeEngineScore(ctx context.Context, req model.AnalysisRequest, result *model.NormalizedResult) {
	if !a.engine.Configured() {
		return
	}

	payload, err := a.engine.Score(ctx, req)
	if err != nil {
		if result.Meta == nil {
			result.Meta = map[string]interface{}{}
		}
		if engErr, ok := err.(*engine.Error); ok {
			result.Meta["engineError"] = engErr.Code
		} else {
			result.Meta["engineError"] = engine.CodeUnknownError
		}
		return
	}

	tr := i18n.NewResolver(req.Language, a.catalogs)
	engineResult := normalize.Normalize(payload, tr)

	// The engine owns the numbers when it answered with any
	if engineResult.Score > 0 {
		result.Score = engineResult.Score
	}
	if engineResult.Breakdown != (model.Breakdown{}) {
		result.Breakdown = engineResult.Breakdown
	}

	if result.Meta == nil {
		result.Meta = map[string]interface{}{}
	}
	// Engine metadata carries the analysis id the resume endpoint needs
	for k, v := range engineResult.Meta {
		result.Meta[k] = v
	}
	result.Meta["engine"] = "ia11"
}
