package parser

import (
	"log/slog"
	"strings"
	"time"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/entity"
)

// Result is what one scan over a document yields. Confidence is the mean of
// per-question confidences, 0 when nothing was found.
type Result struct {
	Parsed     []entity.ParsedQuestion
	Confidence int
	Analysis   entity.BatchAnalysis
}

// Questions returns the parsed questions with diagnostics stripped.
func (r Result) Questions() []entity.Question {
	out := make([]entity.Question, 0, len(r.Parsed))
	for _, p := range r.Parsed {
		out = append(out, p.Strip())
	}
	return out
}

// Parser is the deterministic rule-based extractor. It never fails: input
// that yields no blocks produces an empty result with confidence 0, which is
// the escalation signal for the pipeline.
type Parser struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Scan splits text into question blocks and extracts a ParsedQuestion from
// each. A new block opens on a question-start signature or once the current
// block has grown past maxBlockLen.
func (p *Parser) Scan(text string) Result {
	start := time.Now()
	if strings.TrimSpace(text) == "" {
		return Result{}
	}

	var blocks []string
	var current []string
	currentLen := 0
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
			currentLen = 0
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if reQuestionStart.MatchString(line) || currentLen > maxBlockLen {
			flush()
		}
		current = append(current, line)
		currentLen += len(line)
	}
	flush()

	res := Result{}
	sum := 0
	for _, block := range blocks {
		q, ok := parseBlock(block)
		if !ok {
			continue
		}
		res.Parsed = append(res.Parsed, q)
		sum += q.Confidence
		switch {
		case q.Confidence > 80:
			res.Analysis.CanUseDirect++
		case q.Confidence >= 50:
			res.Analysis.ShouldUseAI++
		default:
			res.Analysis.NeedsReview++
		}
	}
	if len(res.Parsed) > 0 {
		res.Confidence = sum / len(res.Parsed)
	}

	p.logger.Info("parser.scan.ok",
		"blocks", len(blocks),
		"questions", len(res.Parsed),
		"confidence", res.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// parseBlock classifies one block and extracts its fields. Blocks whose
// derived question text is shorter than the minimum are discarded.
func parseBlock(block string) (entity.ParsedQuestion, bool) {
	lines := nonEmptyLines(block)
	if len(lines) == 0 {
		return entity.ParsedQuestion{}, false
	}

	questionText := deriveQuestionText(lines)
	if len(questionText) < constants.MinQuestionTextLen {
		return entity.ParsedQuestion{}, false
	}

	confidence := 0
	detected := "unknown"

	isMCQ := reMCQ.MatchString(block)
	isTrueFalse := reTrueFalse.MatchString(block) && !isMCQ
	isFillBlank := reFillBlank.MatchString(block)

	var qType constants.QuestionType
	switch {
	case isTrueFalse:
		qType = constants.TrueFalse
		detected = "true_false"
		confidence += confFormatStrong
	case isFillBlank:
		qType = constants.FillBlank
		detected = "fill_blank"
		confidence += confFormatFill
	case isMCQ:
		qType = constants.MultipleChoice
		detected = "multiple_choice"
		confidence += confFormatStrong
	default:
		qType = constants.MultipleChoice
		confidence += confFormatWeak
	}

	// The first line is the stem; it never contributes an option even when it
	// carries a numbered marker.
	var options []string
	if !isTrueFalse {
		for _, line := range lines[1:] {
			if m := reOption.FindStringSubmatch(line); m != nil {
				options = append(options, strings.TrimSpace(m[1]))
			}
		}
	}
	if len(options) > 0 {
		confidence += confOptions
	}

	var difficulty constants.Difficulty
	if m := reDifficulty.FindString(block); m != "" {
		switch strings.ToLower(m) {
		case "easy", "simple":
			difficulty = constants.DifficultyEasy
		case "hard", "difficult", "complex", "challenging":
			difficulty = constants.DifficultyHard
		default:
			difficulty = constants.DifficultyMedium
		}
		confidence += confDifficulty
	}

	points := constants.DefaultPoints
	if m := rePoints.FindStringSubmatch(block); m != nil {
		points = clampPoints(m[1])
		confidence += confPoints
	}

	category := ""
	if m := reCategory.FindString(block); m != "" {
		category = m
		confidence += confCategory
	}

	var tags []string
	seen := map[string]struct{}{}
	for _, m := range reTags.FindAllString(block, -1) {
		t := strings.ToLower(m)
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	if len(tags) > 0 {
		confidence += confTags
	}

	// Answer heuristic: explicit True/False token wins; otherwise the first
	// option stands in as the answer. The first-option default is a known
	// weakness of the rule set, kept as documented behavior.
	var answer *entity.Answer
	if isTrueFalse {
		if reAnswerTrue.MatchString(block) {
			answer = entity.SingleAnswer("true")
		} else if reAnswerFalse.MatchString(block) {
			answer = entity.SingleAnswer("false")
		}
	} else if len(options) > 0 {
		answer = entity.SingleAnswer(options[0])
	}

	if confidence > 100 {
		confidence = 100
	}

	return entity.ParsedQuestion{
		Question: entity.Question{
			Type:          qType,
			QuestionText:  questionText,
			Options:       options,
			CorrectAnswer: answer,
			Points:        points,
			Difficulty:    difficulty,
			Category:      category,
			Tags:          tags,
		},
		Confidence:     confidence,
		DetectedFormat: detected,
	}, true
}

// deriveQuestionText joins the first 1-3 non-empty lines, stopping early at
// the first option-marker line so options don't bleed into the stem.
func deriveQuestionText(lines []string) string {
	var parts []string
	for i, line := range lines {
		if i == 3 {
			break
		}
		if i > 0 && reOption.MatchString(line) {
			break
		}
		parts = append(parts, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func nonEmptyLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func clampPoints(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
		if n > constants.MaxPoints {
			return constants.MaxPoints
		}
	}
	if n < constants.MinPoints {
		return constants.MinPoints
	}
	return n
}
