package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
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
)

func main() {
	var (
		inPath      = flag.String("in", "", "input document (required)")
		outPath     = flag.String("o", "", "write an XLSX workbook to this path")
		useAI       = flag.Bool("use-ai", true, "allow escalation to provider tiers")
		preferLocal = flag.Bool("prefer-local", false, "try local inference tiers first")
		threshold   = flag.Int("threshold", 0, "confidence threshold override")
		maxQ        = flag.Int("max", 0, "question cap override")
		quiet       = flag.Bool("q", false, "suppress progress output")
		timeout     = flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: extract -in exam.txt [-o questions.xlsx]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.LoadConfig()

	f, err := os.Open(*inPath)
	if err != nil {
		logger.Error("open input", "path", *inPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	text, err := ingest.NewService(logger).Ingest(ctx, filepath.Base(*inPath), f)
	if err != nil {
		logger.Error("ingest input", "path", *inPath, "error", err)
		os.Exit(1)
	}

	eng := engine.New(engine.Config{
		Model:    cfg.Engine.Model,
		ModelDir: cfg.Engine.ModelDir,
	}, nil, logger)
	defer eng.Unload()
	daemon := ollama.NewClient(ollama.Config{BaseURL: cfg.Ollama.BaseURL, Model: cfg.Ollama.Model, Timeout: cfg.Ollama.Timeout}, logger)
	primary := groq.NewClient(groq.Config{APIKey: cfg.Groq.APIKey, Model: cfg.Groq.Model, Timeout: cfg.Groq.Timeout}, logger)
	secondary := hf.NewClient(hf.Config{Token: cfg.HF.Token, Model: cfg.HF.Model, Timeout: cfg.HF.Timeout}, logger)

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
	extractor := pipeline.NewExtractor(parser.New(logger), pipeline.NewOrchestrator(tiers, logger), validator, logger)

	var progress pipeline.ProgressFunc
	if !*quiet {
		progress = func(ev pipeline.Event) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", ev.Stage, ev.Message)
		}
	}

	result := extractor.Extract(ctx, text, pipeline.Options{
		UseAI:               *useAI,
		PreferLocal:         *preferLocal,
		ConfidenceThreshold: *threshold,
		MaxQuestions:        *maxQ,
	}, progress)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}

	if *outPath != "" {
		b, err := export.NewService(logger).BuildWorkbook(result)
		if err != nil {
			logger.Error("build workbook", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*outPath, b, 0o644); err != nil {
			logger.Error("write workbook", "path", *outPath, "error", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d questions)\n", *outPath, len(result.Questions))
	}
}
