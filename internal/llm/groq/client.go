package groq

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/entity"
	"github.com/examforge/question-extractor/internal/llm"
)

func (c *Client) Name() constants.ProviderID { return constants.ProviderGroq }

// Extract implements llm.Extractor against the Groq chat-completions API.
// Every failure mode collapses into llm.ErrUnavailable; transient statuses
// are retried with exponential backoff inside the tier's time budget.
func (c *Client) Extract(ctx context.Context, req llm.Request) ([]entity.Question, error) {
	if c.cfg.APIKey == "" {
		return nil, llm.Unavailable("groq: api key not configured")
	}

	rid := uuid.New().String()
	start := time.Now()
	text := llm.TruncateText(req.Text, c.cfg.MaxInput)

	c.logger.Info("llm.groq.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(text),
		"max_questions", req.MaxQuestions,
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  4096,
		"messages": []map[string]any{
			{"role": "system", "content": llm.SystemPrompt},
			{"role": "user", "content": llm.BuildUserPrompt(text, req.MaxQuestions)},
		},
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	var raw []byte
	op := func() error {
		var status int
		var err error
		raw, status, err = llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.logger)
		if err == nil {
			return nil
		}
		// Retry rate limits and server errors; everything else is final.
		if status == 429 || status/100 == 5 || status == 0 {
			return err
		}
		return backoff.Permanent(err)
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.cfg.RetryFor
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		c.logger.Warn("llm.groq.extract.http_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, llm.Unavailable("groq: %v", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, llm.Unavailable("groq: decode response: %v", err)
	}
	if len(cc.Choices) == 0 || strings.TrimSpace(cc.Choices[0].Message.Content) == "" {
		return nil, llm.Unavailable("groq: no completion in response")
	}

	qs, err := llm.DecodeQuestions(cc.Choices[0].Message.Content)
	if err != nil {
		return nil, llm.Unavailable("groq: %v", err)
	}

	c.logger.Info("llm.groq.extract.ok",
		"req_id", rid,
		"questions", len(qs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return qs, nil
}

var _ llm.Extractor = (*Client)(nil)
