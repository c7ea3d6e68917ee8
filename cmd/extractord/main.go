package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/examforge/question-extractor/internal/config"
	"github.com/examforge/question-extractor/internal/export"
	"github.com/examforge/question-extractor/internal/ingest"
	"github.com/examforge/question-extractor/internal/llm"
	"github.com/examforge/question-extractor/internal/llm/engine"
	"github.com/examforge/question-extractor/internal/llm/groq"
	"github.com/examforge/question-extractor/internal/llm/hf"
	"github.com/examforge/question-extractor/internal/llm/ollama"
	"github.com/examforge/question-extractor/internal/parser"
	"github.com/examforge/question-extractor/internal/pipeline"
	"github.com/examforge/question-extractor/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Provider tiers in fixed priority order. The in-process engine has no
	// backend wired in this build; its probe reports it unsupported and the
	// chain moves on.
	eng := engine.New(engine.Config{
		Model:       cfg.Engine.Model,
		ModelDir:    cfg.Engine.ModelDir,
		LoadTimeout: cfg.Engine.LoadTimeout,
	}, nil, logger)
	defer eng.Unload()

	daemon := ollama.NewClient(ollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.Model,
		Timeout: cfg.Ollama.Timeout,
	}, logger)

	primary := groq.NewClient(groq.Config{
		APIKey:  cfg.Groq.APIKey,
		Model:   cfg.Groq.Model,
		Timeout: cfg.Groq.Timeout,
	}, logger)

	secondary := hf.NewClient(hf.Config{
		Token:   cfg.HF.Token,
		Model:   cfg.HF.Model,
		Timeout: cfg.HF.Timeout,
	}, logger)

	tiers := []pipeline.Tier{
		{Provider: eng, LocalOnly: true, Probe: func(ctx context.Context) bool { return eng.Supported() }},
		{Provider: daemon, LocalOnly: true, Probe: daemon.Probe},
		{Provider: primary},
		{Provider: secondary},
	}

	validator, err := llm.NewValidator(logger)
	if err != nil {
		logger.Error("building validator", "error", err)
		os.Exit(1)
	}

	extractor := pipeline.NewExtractor(
		parser.New(logger),
		pipeline.NewOrchestrator(tiers, logger),
		validator,
		logger,
	)

	opts := pipeline.Options{
		UseAI:               cfg.Pipeline.UseAI,
		PreferLocal:         cfg.Pipeline.PreferLocal,
		ConfidenceThreshold: cfg.Pipeline.ConfidenceThreshold,
		MaxQuestions:        cfg.Pipeline.MaxQuestions,
	}

	statuses := []server.StatusFunc{
		func(ctx context.Context) server.ProviderStatus {
			st := server.ProviderStatus{Provider: "engine", Available: eng.Supported()}
			if !st.Available {
				st.Message = "no in-process backend"
			}
			return st
		},
		func(ctx context.Context) server.ProviderStatus {
			st := daemon.Status(ctx)
			return server.ProviderStatus{Provider: "ollama", Available: st.Available, Message: st.Message}
		},
		func(ctx context.Context) server.ProviderStatus {
			return keyStatus("groq", cfg.Groq.APIKey)
		},
		func(ctx context.Context) server.ProviderStatus {
			return keyStatus("huggingface", cfg.HF.Token)
		},
	}

	srv := server.NewServer(
		cfg.Server,
		opts,
		extractor,
		ingest.NewService(logger),
		export.NewService(logger),
		statuses,
		logger,
	)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}

func keyStatus(name, key string) server.ProviderStatus {
	if key == "" {
		return server.ProviderStatus{Provider: name, Message: "api key not configured"}
	}
	return server.ProviderStatus{Provider: name, Available: true, Message: "configured"}
}
