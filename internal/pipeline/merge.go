package pipeline

import "github.com/examforge/question-extractor/internal/entity"

// MergeStrategy combines local parser output with validated provider output.
type MergeStrategy interface {
	Merge(local, provider []entity.Question) []entity.Question
}

// ReplaceMerge is the current policy: when the provider chain produced at
// least one valid question, its results replace the local ones wholesale;
// otherwise the local results stand. A field-level union is a possible
// future variant behind this interface, deliberately not implemented.
type ReplaceMerge struct{}

func (ReplaceMerge) Merge(local, provider []entity.Question) []entity.Question {
	if len(provider) > 0 {
		return provider
	}
	return local
}

var _ MergeStrategy = ReplaceMerge{}
