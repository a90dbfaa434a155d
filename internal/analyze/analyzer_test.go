package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/leenscore/leenscore/internal/model"
)

// fakeProvider returns a fixed payload and counts calls. AnalyzeDual calls
// the provider from two goroutines, so lastReq is mutex-guarded.
type fakeProvider struct {
	payload json.RawMessage
	err     error
	calls   int32

	mu      sync.Mutex
	lastReq Request
}

func (f *fakeProvider) Name() string                         { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Analyze(ctx context.Context, req Request) (json.RawMessage, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.lastReq = req
	f.mu.Unlock()
	return f.payload, f.err
}

func (f *fakeProvider) lastRequest() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

func testAnalyzerConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Engine.BaseURL = ""
	cfg.HTTP.RespectRobots = false
	return cfg
}

const providerPayload = `{
	"result": {
		"score": 70,
		"breakdown": {"access": 70, "language": 75, "evidence": 65, "technical": 70},
		"sourcesBuckets": {"corroborate": [{"url": "https://a.example"}]},
		"keyPoints": {"confirmed": 2, "uncertain": 1, "contradicted": 0},
		"summary": "Looks solid."
	}
}`

func TestAnalyzer_TextAnalysis(t *testing.T) {
	provider := &fakeProvider{payload: json.RawMessage(providerPayload)}
	analyzer := NewWithProvider(testAnalyzerConfig(), provider)

	result, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{Content: "some claim"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Score != 70 {
		t.Errorf("Expected score 70, got %d", result.Score)
	}
	if result.Status != model.StatusConfirmed {
		t.Errorf("Expected confirmed, got %s", result.Status)
	}
	if got := provider.lastRequest(); got.Language != "en" {
		t.Errorf("Expected language defaulted to en, got %q", got.Language)
	} else if got.Kind != model.AnalysisTypeText {
		t.Errorf("Expected text kind, got %s", got.Kind)
	}
}

func TestAnalyzer_ProviderErrorPropagates(t *testing.T) {
	provider := &fakeProvider{err: errors.New("backend down")}
	analyzer := NewWithProvider(testAnalyzerConfig(), provider)

	if _, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{Content: "x"}); err == nil {
		t.Error("Expected provider error to propagate")
	}
}

func TestAnalyzer_UnverifiedResultCapped(t *testing.T) {
	// High score but no sources at all: the unverified cap applies
	provider := &fakeProvider{payload: json.RawMessage(`{"result": {"score": 95}}`)}
	analyzer := NewWithProvider(testAnalyzerConfig(), provider)

	result, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{Content: "x"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Score != 65 {
		t.Errorf("Expected unverified score capped at 65, got %d", result.Score)
	}
}

func TestAnalyzer_URLSubmissionFetchesContent(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Article</title></head><body><p>Page body text.</p></body></html>`))
	}))
	defer page.Close()

	provider := &fakeProvider{payload: json.RawMessage(providerPayload)}
	analyzer := NewWithProvider(testAnalyzerConfig(), provider)

	_, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{URL: page.URL})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if provider.lastRequest().Kind != model.AnalysisTypeURL {
		t.Errorf("Expected URL kind, got %s", provider.lastRequest().Kind)
	}
	if provider.lastRequest().Content == "" {
		t.Error("Expected fetched page content handed to the provider")
	}
}

func TestAnalyzer_CachesResults(t *testing.T) {
	cfg := testAnalyzerConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()

	provider := &fakeProvider{payload: json.RawMessage(providerPayload)}
	analyzer := NewWithProvider(cfg, provider)

	req := model.AnalysisRequest{Content: "cached claim"}

	first, err := analyzer.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("First analyze failed: %v", err)
	}
	second, err := analyzer.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Second analyze failed: %v", err)
	}

	if atomic.LoadInt32(&provider.calls) != 1 {
		t.Errorf("Expected 1 provider call, got %d", provider.calls)
	}
	if first.Score != second.Score || first.Status != second.Status {
		t.Errorf("Cached result differs: %+v vs %+v", first, second)
	}
}

func TestAnalyzer_DualLanguageReconciled(t *testing.T) {
	provider := &fakeProvider{payload: json.RawMessage(providerPayload)}
	analyzer := NewWithProvider(testAnalyzerConfig(), provider)

	primary, secondary, err := analyzer.AnalyzeDual(context.Background(),
		model.AnalysisRequest{Content: "claim"}, "en", "fr")
	if err != nil {
		t.Fatalf("AnalyzeDual failed: %v", err)
	}

	if atomic.LoadInt32(&provider.calls) != 2 {
		t.Errorf("Expected 2 provider calls, got %d", provider.calls)
	}
	if primary.Score != secondary.Score {
		t.Errorf("Expected reconciled scores, got %d vs %d", primary.Score, secondary.Score)
	}
	if primary.Breakdown != secondary.Breakdown {
		t.Errorf("Expected reconciled breakdowns, got %+v vs %+v", primary.Breakdown, secondary.Breakdown)
	}
	// French result carries French badge text
	if secondary.Badge != "Confirmé par le web" {
		t.Errorf("Expected French badge on secondary, got %q", secondary.Badge)
	}
}

// perLanguageProvider returns a different payload per requested language
type perLanguageProvider struct {
	payloads map[string]string
}

func (p *perLanguageProvider) Name() string                         { return "per-language" }
func (p *perLanguageProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *perLanguageProvider) Analyze(ctx context.Context, req Request) (json.RawMessage, error) {
	payload, ok := p.payloads[req.Language]
	if !ok {
		return nil, errors.New("no payload for language")
	}
	return json.RawMessage(payload), nil
}

func TestAnalyzer_DualLanguageStatusMatchesOwnCounters(t *testing.T) {
	// The two language runs genuinely disagree: English found a
	// contradiction, French found nothing. Reconciliation aligns the
	// headline numbers but must never leave a status that disagrees with
	// the counters it ships with.
	provider := &perLanguageProvider{payloads: map[string]string{
		"en": `{"result": {
			"score": 30,
			"sourcesBuckets": {"contradict": [{"url": "https://a.example"}]},
			"keyPoints": {"confirmed": 0, "uncertain": 0, "contradicted": 1}
		}}`,
		"fr": `{"result": {
			"score": 55,
			"sourcesBuckets": {},
			"keyPoints": {"confirmed": 0, "uncertain": 0, "contradicted": 0}
		}}`,
	}}
	analyzer := NewWithProvider(testAnalyzerConfig(), provider)

	primary, secondary, err := analyzer.AnalyzeDual(context.Background(),
		model.AnalysisRequest{Content: "claim"}, "en", "fr")
	if err != nil {
		t.Fatalf("AnalyzeDual failed: %v", err)
	}

	if primary.Score != 30 || secondary.Score != 30 {
		t.Errorf("Expected primary score forced onto secondary, got %d vs %d", primary.Score, secondary.Score)
	}

	if primary.Status != model.StatusContradicted {
		t.Errorf("Expected contradicted primary, got %s", primary.Status)
	}
	if secondary.Status != model.StatusLimited {
		t.Errorf("Expected limited secondary from its own counters, got %s", secondary.Status)
	}
	if secondary.Counters != (model.KeyPointCounters{}) {
		t.Errorf("Expected secondary counters untouched, got %+v", secondary.Counters)
	}
	if secondary.Badge != "Preuves limitées" {
		t.Errorf("Expected badge matching secondary status, got %q", secondary.Badge)
	}
	if secondary.SourceCount != 0 {
		t.Errorf("Expected secondary source count untouched, got %d", secondary.SourceCount)
	}
}

func TestAnalyzer_EngineOverridesNumbers(t *testing.T) {
	engineServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": {"score": 88, "breakdown": {"access": 90, "language": 85, "evidence": 88, "technical": 89}}}`))
	}))
	defer engineServer.Close()

	cfg := testAnalyzerConfig()
	cfg.Engine.BaseURL = engineServer.URL

	provider := &fakeProvider{payload: json.RawMessage(providerPayload)}
	analyzer := NewWithProvider(cfg, provider)

	result, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{Content: "claim"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Score != 88 {
		t.Errorf("Expected engine score 88, got %d", result.Score)
	}
	if result.Breakdown.Access != 90 {
		t.Errorf("Expected engine breakdown, got %+v", result.Breakdown)
	}
	if result.Meta["engine"] != "ia11" {
		t.Errorf("Expected engine marker in meta, got %+v", result.Meta)
	}
}

func TestAnalyzer_EngineMetaSurfaced(t *testing.T) {
	engineServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": {"score": 81, "meta": {"analysisId": "a-789", "engineVersion": "2.3"}}}`))
	}))
	defer engineServer.Close()

	cfg := testAnalyzerConfig()
	cfg.Engine.BaseURL = engineServer.URL

	provider := &fakeProvider{payload: json.RawMessage(providerPayload)}
	analyzer := NewWithProvider(cfg, provider)

	result, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{Content: "claim"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// The analysis id is what the resume endpoint keys sessions on
	if result.Meta["analysisId"] != "a-789" {
		t.Errorf("Expected engine analysis id in meta, got %+v", result.Meta)
	}
	if result.Meta["engineVersion"] != "2.3" {
		t.Errorf("Expected engine meta merged, got %+v", result.Meta)
	}
	if result.Meta["engine"] != "ia11" {
		t.Errorf("Expected engine marker kept, got %+v", result.Meta)
	}
}

func TestAnalyzer_EngineFailureIsNonFatal(t *testing.T) {
	engineServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer engineServer.Close()

	cfg := testAnalyzerConfig()
	cfg.Engine.BaseURL = engineServer.URL

	provider := &fakeProvider{payload: json.RawMessage(providerPayload)}
	analyzer := NewWithProvider(cfg, provider)

	result, err := analyzer.Analyze(context.Background(), model.AnalysisRequest{Content: "claim"})
	if err != nil {
		t.Fatalf("Expected LLM-only result despite engine failure, got %v", err)
	}

	if result.Score != 70 {
		t.Errorf("Expected LLM score preserved, got %d", result.Score)
	}
	if result.Meta["engineError"] != "HTTP_500" {
		t.Errorf("Expected engine error recorded in meta, got %+v", result.Meta)
	}
}

func TestAnalyzer_Resume(t *testing.T) {
	var gotPath string
	engineServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"result": {"score": 55, "sources": [{"url": "a"}]}}`))
	}))
	defer engineServer.Close()

	cfg := testAnalyzerConfig()
	cfg.Engine.BaseURL = engineServer.URL

	analyzer := NewWithProvider(cfg, &fakeProvider{})

	result, err := analyzer.Resume(context.Background(), "analysis-1", "en")
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if gotPath != "/v1/analyses/analysis-1" {
		t.Errorf("Unexpected path: %s", gotPath)
	}
	if result.Score != 55 {
		t.Errorf("Expected score 55, got %d", result.Score)
	}
}
