package pipeline

// Options controls one pipeline invocation.
type Options struct {
	// UseAI allows escalation to provider tiers at all.
	UseAI bool
	// PreferLocal gates the in-process engine and local daemon tiers.
	PreferLocal bool
	// ConfidenceThreshold is the escalation cutoff; 0 means DefaultThreshold.
	ConfidenceThreshold int
	// MaxQuestions caps the final result; 0 means DefaultMaxQuestions.
	MaxQuestions int
}

const (
	DefaultThreshold    = 80
	DefaultMaxQuestions = 100
)

func (o Options) withDefaults() Options {
	if o.ConfidenceThreshold <= 0 {
		o.ConfidenceThreshold = DefaultThreshold
	}
	if o.MaxQuestions <= 0 {
		o.MaxQuestions = DefaultMaxQuestions
	}
	return o
}

// ShouldEscalate is the confidence evaluator: escalation happens when AI is
// allowed and local confidence sits below the threshold. Zero local
// questions always yield confidence 0, so they escalate whenever useAI is on.
func ShouldEscalate(useAI bool, localConfidence, threshold int) bool {
	return useAI && localConfidence < threshold
}
