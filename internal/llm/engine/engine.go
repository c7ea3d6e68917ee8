// Package engine is the in-process inference tier. Loading a model is
// expensive, so the runtime is held as a process-wide handle with an
// init-once guard: while a load is in flight, other invocations see the
// tier as not yet available instead of blocking or double-loading.
package engine

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/entity"
	"github.com/examforge/question-extractor/internal/llm"
)

// Models maps friendly names to model artifact identifiers.
var Models = map[string]string{
	"phi-2":      "phi-2-q4f32_1",
	"mistral-7b": "mistral-7b-instruct-v0.2-q4f32_1",
	"tinyllama":  "TinyLlama-1.1B-Chat-v1.0-q4f32_1",
}

// DefaultModel is the fast extraction default.
const DefaultModel = "phi-2"

// Runtime is a loaded in-process inference backend.
type Runtime interface {
	ChatCompletion(ctx context.Context, system, user string) (string, error)
	Close() error
}

// LoadFunc loads a runtime for a model artifact. It is injected so the heavy
// backend stays behind this boundary; a nil LoadFunc means the environment
// has no in-process inference support at all.
type LoadFunc func(ctx context.Context, modelID string) (Runtime, error)

// Config for the engine tier.
type Config struct {
	Model       string        // key into Models, default DefaultModel
	ModelDir    string        // directory holding model artifacts
	LoadTimeout time.Duration // bound on first-use model load
	MaxInput    int           // input truncation, default 3000 chars
}

// Engine is the process-wide handle. Safe for concurrent use.
type Engine struct {
	cfg    Config
	load   LoadFunc
	logger *slog.Logger

	mu      sync.Mutex
	rt      Runtime
	loading bool
}

func New(cfg Config, load LoadFunc, logger *slog.Logger) *Engine {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = 2 * time.Minute
	}
	if cfg.MaxInput <= 0 {
		cfg.MaxInput = 3000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, load: load, logger: logger}
}

func (e *Engine) Name() constants.ProviderID { return constants.ProviderEngine }

// Supported is the capability probe: it reports whether this environment can
// run in-process inference at all. It never fails; a missing backend, an
// unknown model, or missing artifacts simply mean false.
func (e *Engine) Supported() bool {
	if e == nil || e.load == nil {
		return false
	}
	if _, ok := Models[e.cfg.Model]; !ok {
		return false
	}
	if e.cfg.ModelDir != "" {
		if st, err := os.Stat(e.cfg.ModelDir); err != nil || !st.IsDir() {
			return false
		}
	}
	return true
}

// acquire returns the loaded runtime, loading it on first use. Callers
// arriving during an in-flight load get ErrUnavailable rather than blocking.
func (e *Engine) acquire(ctx context.Context) (Runtime, error) {
	e.mu.Lock()
	if e.rt != nil {
		rt := e.rt
		e.mu.Unlock()
		return rt, nil
	}
	if e.loading {
		e.mu.Unlock()
		return nil, llm.Unavailable("engine: model load in progress")
	}
	e.loading = true
	e.mu.Unlock()

	modelID := Models[e.cfg.Model]
	e.logger.Info("llm.engine.load.start", "model", e.cfg.Model, "model_id", modelID)
	start := time.Now()

	loadCtx, cancel := context.WithTimeout(ctx, e.cfg.LoadTimeout)
	defer cancel()
	rt, err := e.load(loadCtx, modelID)

	e.mu.Lock()
	e.loading = false
	if err == nil {
		e.rt = rt
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("llm.engine.load.failed", "model", e.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, llm.Unavailable("engine: load model: %v", err)
	}
	e.logger.Info("llm.engine.load.ok", "model", e.cfg.Model,
		"elapsed_ms", time.Since(start).Milliseconds())
	return rt, nil
}

// Extract implements llm.Extractor on the in-process runtime.
func (e *Engine) Extract(ctx context.Context, req llm.Request) ([]entity.Question, error) {
	if !e.Supported() {
		return nil, llm.Unavailable("engine: not supported in this environment")
	}
	rt, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}

	rid := uuid.New().String()
	start := time.Now()
	text := llm.TruncateText(llm.CleanInput(req.Text), e.cfg.MaxInput)
	if text == "" {
		return nil, llm.Unavailable("engine: empty text after sanitize")
	}

	e.logger.Info("llm.engine.extract.start",
		"req_id", rid,
		"model", e.cfg.Model,
		"text_len", len(text),
		"max_questions", req.MaxQuestions,
	)

	completion, err := rt.ChatCompletion(ctx, llm.SystemPrompt, llm.BuildUserPrompt(text, req.MaxQuestions))
	if err != nil {
		e.logger.Warn("llm.engine.extract.failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, llm.Unavailable("engine: %v", err)
	}
	if strings.TrimSpace(completion) == "" {
		return nil, llm.Unavailable("engine: empty completion")
	}

	qs, err := llm.DecodeQuestions(completion)
	if err != nil {
		return nil, llm.Unavailable("engine: %v", err)
	}

	e.logger.Info("llm.engine.extract.ok",
		"req_id", rid,
		"questions", len(qs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return qs, nil
}

// Unload releases the runtime, mainly for tests and orderly shutdown.
func (e *Engine) Unload() {
	e.mu.Lock()
	rt := e.rt
	e.rt = nil
	e.mu.Unlock()
	if rt != nil {
		if err := rt.Close(); err != nil {
			e.logger.Warn("llm.engine.unload_error", "error", err)
		}
	}
}

var _ llm.Extractor = (*Engine)(nil)
