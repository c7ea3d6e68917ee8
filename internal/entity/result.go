package entity

import "github.com/examforge/question-extractor/constants"

// ExtractionResult is what a single pipeline invocation returns.
// Questions keep pipeline emission order and are never deduplicated.
type ExtractionResult struct {
	Questions []Question         `json:"questions"`
	Metadata  ExtractionMetadata `json:"metadata"`
}

// ExtractionMetadata describes how the result was produced.
// TotalExtracted always equals len(Questions); UsedAI true implies a concrete
// AIProvider; LocalConfidenceScore reflects local parsing only.
type ExtractionMetadata struct {
	TotalExtracted       int                  `json:"totalExtracted"`
	LocalConfidenceScore int                  `json:"localConfidenceScore"`
	UsedAI               bool                 `json:"usedAI"`
	AIProvider           constants.ProviderID `json:"aiProvider"`
	ProcessingTimeMS     int64                `json:"processingTime"`
	Issues               []string             `json:"issues"`
	LocalAnalysis        *BatchAnalysis       `json:"localAnalysis,omitempty"`
}

// BatchAnalysis buckets locally parsed questions by how much review they need.
type BatchAnalysis struct {
	CanUseDirect int `json:"canUseDirect"` // confidence > 80
	ShouldUseAI  int `json:"shouldUseAI"`  // confidence 50-80
	NeedsReview  int `json:"needsReview"`  // confidence < 50
}

// ConfidenceLevel buckets a 0-100 confidence score for display.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// LevelForScore maps a confidence score to its display band.
func LevelForScore(score int) ConfidenceLevel {
	switch {
	case score >= 80:
		return ConfidenceHigh
	case score >= 50:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
