package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/examforge/question-extractor/internal/entity"
)

// Validator is the second normalization pass at the orchestrator boundary:
// provider output that already went through adapter-level normalization is
// re-checked against the canonical schema before it may reach the merger.
type Validator struct {
	schema *jsonschema.Schema
	logger *slog.Logger
}

func NewValidator(logger *slog.Logger) (*Validator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := json.Marshal(BuildQuestionJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("question.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("question.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema, logger: logger}, nil
}

// Filter keeps only schema-conformant questions. Rejected items are dropped
// silently from the batch; the reasons come back for the issues log.
func (v *Validator) Filter(qs []entity.Question) ([]entity.Question, []string) {
	kept := make([]entity.Question, 0, len(qs))
	var issues []string
	for i, q := range qs {
		if reason := v.check(q); reason != "" {
			issues = append(issues, fmt.Sprintf("validation dropped question %d: %s", i+1, reason))
			continue
		}
		kept = append(kept, q)
	}
	if len(issues) > 0 {
		v.logger.Warn("llm.validate.dropped", "in", len(qs), "kept", len(kept))
	}
	return kept, issues
}

func (v *Validator) check(q entity.Question) string {
	if len(q.QuestionText) <= 5 {
		return "question_text too short"
	}
	if q.Type.RequiresOptions() && len(q.Options) == 0 {
		return fmt.Sprintf("type %s requires options", q.Type)
	}
	b, err := json.Marshal(q)
	if err != nil {
		return "not serializable"
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return "not decodable"
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Sprintf("schema: %v", err)
	}
	return ""
}
