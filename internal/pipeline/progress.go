package pipeline

// Stage labels a pipeline phase for progress reporting.
type Stage string

const (
	StageParse    Stage = "parse"
	StageEvaluate Stage = "evaluate"
	StageProvider Stage = "provider"
	StageValidate Stage = "validate"
	StageMerge    Stage = "merge"
	StageReport   Stage = "report"
)

// Event is one entry in the ordered progress stream a caller can subscribe
// to. Events replace any direct console narration inside the pipeline.
type Event struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// ProgressFunc receives events in emission order. A nil ProgressFunc is
// always allowed.
type ProgressFunc func(Event)

func (f ProgressFunc) emit(stage Stage, message string) {
	if f != nil {
		f(Event{Stage: stage, Message: message})
	}
}
