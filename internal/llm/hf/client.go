// Package hf is the secondary cloud tier: the Hugging Face inference API.
// It takes a single prompt string and returns generated_text, unlike the
// chat-shaped primary tier.
package hf

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/entity"
	"github.com/examforge/question-extractor/internal/llm"
)

// Config for the Hugging Face inference client.
type Config struct {
	Token    string // falls back to env HF_API_KEY
	BaseURL  string // default https://api-inference.huggingface.co/models
	Model    string // default mistralai/Mistral-7B-Instruct-v0.1
	Timeout  time.Duration
	MaxInput int // input truncation, default 8000 chars
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Token == "" {
		cfg.Token = os.Getenv("HF_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-inference.huggingface.co/models"
	}
	if cfg.Model == "" {
		cfg.Model = "mistralai/Mistral-7B-Instruct-v0.1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxInput <= 0 {
		cfg.MaxInput = 8000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (c *Client) Name() constants.ProviderID { return constants.ProviderHuggingFace }

// Extract implements llm.Extractor against the HF text-generation endpoint.
func (c *Client) Extract(ctx context.Context, req llm.Request) ([]entity.Question, error) {
	if c.cfg.Token == "" {
		return nil, llm.Unavailable("hf: token not configured")
	}

	rid := uuid.New().String()
	start := time.Now()
	text := llm.TruncateText(req.Text, c.cfg.MaxInput)

	c.logger.Info("llm.hf.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(text),
		"max_questions", req.MaxQuestions,
	)

	body := map[string]any{
		"inputs": llm.BuildPlainPrompt(text, req.MaxQuestions),
		"parameters": map[string]any{
			"max_new_tokens": 2048,
			"temperature":    0.3,
		},
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + c.cfg.Model
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.Token}

	raw, _, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.logger)
	if err != nil {
		c.logger.Warn("llm.hf.extract.http_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, llm.Unavailable("hf: %v", err)
	}

	var gen []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, llm.Unavailable("hf: decode response: %v", err)
	}
	if len(gen) == 0 || strings.TrimSpace(gen[0].GeneratedText) == "" {
		return nil, llm.Unavailable("hf: no completion in response")
	}

	qs, err := llm.DecodeQuestions(gen[0].GeneratedText)
	if err != nil {
		return nil, llm.Unavailable("hf: %v", err)
	}

	c.logger.Info("llm.hf.extract.ok",
		"req_id", rid,
		"questions", len(qs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return qs, nil
}

var _ llm.Extractor = (*Client)(nil)
