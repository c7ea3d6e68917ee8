package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/entity"
	"github.com/examforge/question-extractor/internal/llm"
	"github.com/examforge/question-extractor/internal/parser"
)

// Extractor is the full hybrid pipeline: deterministic parse, escalation
// decision, provider fallback chain, validation, merge, report.
type Extractor struct {
	parser    *parser.Parser
	orch      *Orchestrator
	validator *llm.Validator
	merger    MergeStrategy
	logger    *slog.Logger
}

func NewExtractor(p *parser.Parser, orch *Orchestrator, validator *llm.Validator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		parser:    p,
		orch:      orch,
		validator: validator,
		merger:    ReplaceMerge{},
		logger:    logger,
	}
}

// Extract runs one document through the pipeline. It never returns an error:
// every failure mode degrades to whatever the local parser produced, with the
// reasons recorded in metadata issues.
func (e *Extractor) Extract(ctx context.Context, text string, opts Options, progress ProgressFunc) entity.ExtractionResult {
	start := time.Now()
	opts = opts.withDefaults()
	runID := uuid.NewString()
	log := e.logger.With("run_id", runID)

	log.Info("pipeline.extract.start",
		"chars", len(text),
		"use_ai", opts.UseAI,
		"prefer_local", opts.PreferLocal,
		"threshold", opts.ConfidenceThreshold,
	)

	progress.emit(StageParse, "parsing document with local rules")
	scan := e.parser.Scan(text)
	local := scan.Questions()
	analysis := scan.Analysis

	var issues []string
	if len(local) == 0 {
		issues = append(issues, "no questions detected in local parsing")
	}
	progress.emit(StageEvaluate, fmt.Sprintf("local parse found %d questions at confidence %d", len(local), scan.Confidence))

	questions := local
	usedAI := false
	provider := constants.ProviderNone

	if ShouldEscalate(opts.UseAI, scan.Confidence, opts.ConfidenceThreshold) {
		log.Info("pipeline.escalate",
			"local_confidence", scan.Confidence,
			"threshold", opts.ConfidenceThreshold,
			"local_questions", len(local),
		)
		req := llm.Request{Text: text, MaxQuestions: opts.MaxQuestions}
		aiQuestions, usedProvider, tierIssues := e.orch.Run(ctx, req, opts.PreferLocal, progress)
		issues = append(issues, tierIssues...)

		if len(aiQuestions) > 0 {
			progress.emit(StageValidate, fmt.Sprintf("validating %d provider questions", len(aiQuestions)))
			valid, dropped := e.validator.Filter(aiQuestions)
			issues = append(issues, dropped...)

			if len(valid) > 0 {
				progress.emit(StageMerge, fmt.Sprintf("replacing %d local questions with %d provider questions", len(local), len(valid)))
				questions = e.merger.Merge(local, valid)
				usedAI = true
				provider = usedProvider
			} else {
				issues = append(issues, fmt.Sprintf("provider %s output failed validation entirely, using local results", usedProvider))
			}
		}
	} else if opts.UseAI {
		log.Info("pipeline.local_sufficient", "local_confidence", scan.Confidence, "threshold", opts.ConfidenceThreshold)
	}

	// The cap applies to the final merged set, never to intermediate stages.
	if len(questions) > opts.MaxQuestions {
		issues = append(issues, fmt.Sprintf("result truncated from %d to %d questions", len(questions), opts.MaxQuestions))
		questions = questions[:opts.MaxQuestions]
	}

	progress.emit(StageReport, fmt.Sprintf("extraction finished with %d questions", len(questions)))

	result := entity.ExtractionResult{
		Questions: questions,
		Metadata: entity.ExtractionMetadata{
			TotalExtracted:       len(questions),
			LocalConfidenceScore: scan.Confidence,
			UsedAI:               usedAI,
			AIProvider:           provider,
			ProcessingTimeMS:     time.Since(start).Milliseconds(),
			Issues:               issues,
			LocalAnalysis:        &analysis,
		},
	}

	log.Info("pipeline.extract.ok",
		"questions", len(questions),
		"confidence_level", entity.LevelForScore(scan.Confidence),
		"used_ai", usedAI,
		"provider", provider,
		"issues", len(issues),
		"elapsed_ms", result.Metadata.ProcessingTimeMS,
	)
	return result
}
