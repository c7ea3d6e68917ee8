package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/entity"
	"github.com/examforge/question-extractor/internal/llm"
)

// Tier is one provider in the fixed fallback order.
type Tier struct {
	Provider llm.Extractor
	// Probe reports current usability; nil means always eligible.
	Probe func(ctx context.Context) bool
	// LocalOnly tiers are attempted only when the caller prefers local
	// inference.
	LocalOnly bool
	// Timeout bounds one attempt; 0 means DefaultTierTimeout.
	Timeout time.Duration
}

const DefaultTierTimeout = 90 * time.Second

// Orchestrator walks tiers strictly in order, short-circuiting on the first
// tier that returns at least one question. It never returns an error: total
// failure across all tiers comes back as an empty slice plus issues, and the
// caller degrades to local-only results.
type Orchestrator struct {
	tiers  []Tier
	logger *slog.Logger
}

func NewOrchestrator(tiers []Tier, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{tiers: tiers, logger: logger}
}

// Run attempts the chain for one escalation. Returned issues record which
// tiers were tried and why each failed.
func (o *Orchestrator) Run(ctx context.Context, req llm.Request, preferLocal bool, progress ProgressFunc) ([]entity.Question, constants.ProviderID, []string) {
	var issues []string

	for _, tier := range o.tiers {
		name := tier.Provider.Name()

		if tier.LocalOnly && !preferLocal {
			o.logger.Debug("pipeline.tier.skipped", "provider", name, "reason", "local tiers not preferred")
			continue
		}
		if tier.Probe != nil && !tier.Probe(ctx) {
			issues = append(issues, fmt.Sprintf("provider %s skipped: capability probe failed", name))
			progress.emit(StageProvider, fmt.Sprintf("%s unavailable, trying next tier", name))
			continue
		}

		progress.emit(StageProvider, fmt.Sprintf("trying provider %s", name))
		start := time.Now()

		timeout := tier.Timeout
		if timeout <= 0 {
			timeout = DefaultTierTimeout
		}
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		qs, err := o.attempt(attemptCtx, tier.Provider, req)
		cancel()

		elapsed := time.Since(start).Milliseconds()
		switch {
		case err != nil:
			// Adapters only surface ErrUnavailable, but a defensive wrap in
			// attempt keeps panics and stray errors contained here too.
			o.logger.Warn("pipeline.tier.failed", "provider", name, "error", err, "elapsed_ms", elapsed)
			issues = append(issues, fmt.Sprintf("provider %s failed: %v", name, err))
		case len(qs) == 0:
			o.logger.Warn("pipeline.tier.empty", "provider", name, "elapsed_ms", elapsed)
			issues = append(issues, fmt.Sprintf("provider %s returned no questions", name))
		default:
			o.logger.Info("pipeline.tier.ok", "provider", name, "questions", len(qs), "elapsed_ms", elapsed)
			progress.emit(StageProvider, fmt.Sprintf("%s returned %d questions", name, len(qs)))
			return qs, name, issues
		}
	}

	issues = append(issues, "all provider tiers failed, using local results")
	return nil, constants.ProviderNone, issues
}

// attempt isolates one provider call so that nothing an adapter does can
// escape the orchestrator boundary.
func (o *Orchestrator) attempt(ctx context.Context, p llm.Extractor, req llm.Request) (qs []entity.Question, err error) {
	defer func() {
		if r := recover(); r != nil {
			qs = nil
			err = llm.Unavailable("%s panicked: %v", p.Name(), r)
		}
	}()

	qs, err = p.Extract(ctx, req)
	if err != nil && !errors.Is(err, llm.ErrUnavailable) {
		err = llm.Unavailable("%s: %v", p.Name(), err)
	}
	return qs, err
}
