package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/leenscore/leenscore/internal/engine"
	"github.com/leenscore/leenscore/internal/fetch"
	"github.com/leenscore/leenscore/internal/imageproc"
	"github.com/leenscore/leenscore/internal/model"
	"github.com/leenscore/leenscore/internal/storage"
)

// AnalysisService is the part of the analyzer the HTTP layer depends on
type AnalysisService interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.NormalizedResult, error)
	AnalyzeDual(ctx context.Context, req model.AnalysisRequest, primaryLang, secondaryLang string) (*model.NormalizedResult, *model.NormalizedResult, error)
	Resume(ctx context.Context, id, language string) (*model.NormalizedResult, error)
	Engine() *engine.Client
}

// Server exposes the analysis pipeline over HTTP
type Server struct {
	analyzer  AnalysisService
	store     *storage.Client
	imageOpts imageproc.Options
	maxUpload int64
}

// New creates a server around the given analyzer and storage client
func New(cfg *model.Config, analyzer AnalysisService, store *storage.Client) *Server {
	maxUpload := cfg.Image.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10_000_000
	}
	return &Server{
		analyzer:  analyzer,
		store:     store,
		imageOpts: imageproc.OptionsFromConfig(cfg.Image),
		maxUpload: maxUpload,
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /v1/upload", s.handleUpload)
	mux.HandleFunc("GET /v1/analyses/{id}", s.handleAnalysis)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// analyzeRequest is the wire shape of an analysis submission
type analyzeRequest struct {
	model.AnalysisRequest
	// SecondaryLanguage requests a concurrent second-language analysis with
	// reconciled numeric fields
	SecondaryLanguage string `json:"secondaryLanguage,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON payload")
		return
	}
	if req.Content == "" && req.URL == "" && req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "one of content, url, image_url is required")
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}

	if req.SecondaryLanguage != "" && req.SecondaryLanguage != req.Language {
		primary, secondary, err := s.analyzer.AnalyzeDual(r.Context(), req.AnalysisRequest, req.Language, req.SecondaryLanguage)
		if err != nil {
			writeAnalysisError(w, err)
			return
		}
		s.rememberSession(r, primary)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"results": map[string]*model.NormalizedResult{
				req.Language:          primary,
				req.SecondaryLanguage: secondary,
			},
		})
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.AnalysisRequest)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	s.rememberSession(r, result)
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": result})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.store == nil || !s.store.Configured() {
		writeError(w, http.StatusServiceUnavailable, engine.CodeNotConfigured, "no storage backend configured")
		return
	}

	// Allow 1 MiB of multipart framing on top of the image ceiling
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+(1<<20))
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "could not read upload")
		return
	}

	if err := imageproc.Validate(data, s.maxUpload); err != nil {
		code := "UNSUPPORTED_IMAGE_TYPE"
		if errors.Is(err, imageproc.ErrTooLarge) {
			code = "IMAGE_TOO_LARGE"
		}
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}

	processed, err := imageproc.Process(data, s.imageOpts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "IMAGE_PROCESSING_FAILED", err.Error())
		return
	}

	stored, err := s.store.Upload(r.Context(), processed.Data, processed.MimeType)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"publicUrl": stored.PublicURL,
		"path":      stored.Path,
		"image":     processed,
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	language := r.URL.Query().Get("lang")

	// "last" resumes the session's most recent analysis after a reload
	if id == "last" {
		session := r.Header.Get("X-Session-ID")
		if session == "" {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "X-Session-ID header required for last analysis lookup")
			return
		}
		lastID, found := s.analyzer.Engine().LastAnalysis(session)
		if !found {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "no analysis recorded for session")
			return
		}
		id = lastID
	}

	result, err := s.analyzer.Resume(r.Context(), id, language)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": result})
}

// rememberSession records the engine analysis id for poll resumption when the
// client identified its session
func (s *Server) rememberSession(r *http.Request, result *model.NormalizedResult) {
	session := r.Header.Get("X-Session-ID")
	if session == "" || result == nil || result.Meta == nil {
		return
	}
	if id, ok := result.Meta["analysisId"].(string); ok {
		s.analyzer.Engine().RememberAnalysis(session, id)
	}
}

// writeAnalysisError maps pipeline failures to HTTP responses without ever
// leaking a panic; the worst case for a client is a retryable error payload
func writeAnalysisError(w http.ResponseWriter, err error) {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		switch engErr.Code {
		case engine.CodeTimeout:
			writeError(w, http.StatusGatewayTimeout, engErr.Code, engErr.Message)
		case engine.CodeNotConfigured:
			writeError(w, http.StatusServiceUnavailable, engErr.Code, engErr.Message)
		case engine.CodeNetworkError:
			writeError(w, http.StatusBadGateway, engErr.Code, engErr.Message)
		default:
			if strings.HasPrefix(engErr.Code, "HTTP_") {
				writeError(w, http.StatusBadGateway, engErr.Code, engErr.Message)
				return
			}
			writeError(w, http.StatusInternalServerError, engErr.Code, engErr.Message)
		}
		return
	}

	if errors.Is(err, fetch.ErrDisallowed) {
		writeError(w, http.StatusUnprocessableEntity, "FETCH_DISALLOWED", err.Error())
		return
	}

	writeError(w, http.StatusBadGateway, engine.CodeUnknownError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[ERROR] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully
func Run(ctx context.Context, cfg *model.Config, analyzer AnalysisService, store *storage.Client) error {
	s := New(cfg, analyzer, store)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
