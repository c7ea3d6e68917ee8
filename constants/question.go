package constants

// QuestionType is the canonical type vocabulary for extracted questions.
// Provider-specific labels are coerced into this closed set.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	MultipleSelect QuestionType = "multiple_select"
	TrueFalse      QuestionType = "true_false"
	Numeric        QuestionType = "numeric"
	Dropdown       QuestionType = "dropdown"
	ShortAnswer    QuestionType = "short_answer"
	Essay          QuestionType = "essay"
	FillBlank      QuestionType = "fill_blank"
)

// QuestionTypes holds every canonical type, for schema enums.
var QuestionTypes = []QuestionType{
	MultipleChoice, MultipleSelect, TrueFalse, Numeric,
	Dropdown, ShortAnswer, Essay, FillBlank,
}

// RequiresOptions reports whether a type is choice-style and therefore
// needs a non-empty options list to be a valid question.
func (t QuestionType) RequiresOptions() bool {
	switch t {
	case MultipleChoice, MultipleSelect, Dropdown:
		return true
	default:
		return false
	}
}

// Difficulty is the optional difficulty label on a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties holds every difficulty value, for schema enums.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

const (
	// MinPoints/MaxPoints bound the points field; out-of-range values are clamped.
	MinPoints = 1
	MaxPoints = 100

	// DefaultPoints is used when a source carries no points marker.
	DefaultPoints = 1

	// MinQuestionTextLen is the shortest question_text the local parser emits.
	MinQuestionTextLen = 10

	// MaxFieldLen caps free-text fields coming back from generative providers.
	MaxFieldLen = 1000
)
