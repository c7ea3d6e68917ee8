package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/entity"
)

// ErrUnavailable is the only error shape adapters surface. Network failures,
// non-2xx statuses, missing credentials, and unparseable completions all
// collapse into it so the orchestrator can move to the next tier.
var ErrUnavailable = errors.New("provider unavailable")

// Unavailable wraps ErrUnavailable with a reason for the issues log.
func Unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}

// Request carries the source text and the item cap for one extraction call.
type Request struct {
	Text         string
	MaxQuestions int
}

// Extractor is the contract every provider tier implements.
// Extract returns normalized, minimally-valid questions or ErrUnavailable;
// it must never panic or return any other error past its boundary.
type Extractor interface {
	Name() constants.ProviderID
	Extract(ctx context.Context, req Request) ([]entity.Question, error)
}
