package parser

import "regexp"

// Rule patterns for block segmentation and field extraction. Order matters
// for classification: true/false first, then fill-blank, then option markers.
var (
	// reQuestionStart opens a new block: leading Q:/Q1:/1)/1. markers or an
	// interrogative/imperative lead word.
	reQuestionStart = regexp.MustCompile(`(?i)^(q:|question:|q\d+:|\d+[).]\s|(what|which|how|why|define|explain|list|name|state|identify|calculate|solve|describe|discuss|compare)\b)`)

	// reOption matches a lettered, numbered, or bulleted option line and
	// captures the option body with the marker stripped.
	reOption = regexp.MustCompile(`^\s*(?:\(?[a-dA-D][).\]]|\d+[).]|[-*•])\s+(.+)$`)

	reTrueFalse = regexp.MustCompile(`(?i)\b(true|false|t\s*\|\s*f|yes|no)\b`)
	reFillBlank = regexp.MustCompile(`(?i)_{2,}|\.{3,}|\[\s*\]|fill\s*in|blank`)
	reMCQ       = regexp.MustCompile(`(?m)^\s*(?:\(?[a-dA-D][).\]])\s+\S`)

	reDifficulty = regexp.MustCompile(`(?i)\b(easy|simple|medium|hard|difficult|complex|challenging)\b`)
	rePoints     = regexp.MustCompile(`(?i)\b(\d+)\s*(points?|marks?|pts?|score)\b`)
	reCategory   = regexp.MustCompile(`(?i)\b(math|english|science|history|geography|physics|chemistry|biology|computer|language|art)\b`)
	reTags       = regexp.MustCompile(`(?i)\b(vocab|grammar|spelling|comprehension|calculation|analysis|synthesis|application)\b`)

	reAnswerTrue  = regexp.MustCompile(`\b(True|T)\b`)
	reAnswerFalse = regexp.MustCompile(`\b(False|F)\b`)
)

// Confidence increments per matched signal; the sum is clamped to [0,100].
const (
	confFormatStrong = 30 // true/false or lettered multiple choice
	confFormatFill   = 20 // fill-in-blank markers
	confFormatWeak   = 10 // nothing recognizable, default classification
	confOptions      = 15
	confDifficulty   = 15
	confPoints       = 10
	confCategory     = 10
	confTags         = 5
)

// maxBlockLen bounds block growth on malformed input without question markers.
const maxBlockLen = 500
