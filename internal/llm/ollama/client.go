// Package ollama is the local-network daemon tier. The daemon exposes a
// model listing at /api/tags (used as the liveness probe) and a single-prompt
// generation endpoint at /api/generate.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/question-extractor/constants"
	"github.com/examforge/question-extractor/internal/entity"
	"github.com/examforge/question-extractor/internal/llm"
)

// Config for the local daemon client.
type Config struct {
	BaseURL      string        // default http://localhost:11434
	Model        string        // default mistral
	Timeout      time.Duration // generation timeout
	ProbeTimeout time.Duration // liveness probe timeout, kept short
	MaxInput     int           // input truncation, default 3000 chars
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "mistral"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 2 * time.Second
	}
	if cfg.MaxInput <= 0 {
		cfg.MaxInput = 3000
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

func (c *Client) Name() constants.ProviderID { return constants.ProviderOllama }

// Probe reports whether the daemon answers its model listing endpoint.
// Any failure (refused connection, timeout, non-2xx) means unavailable;
// nothing propagates upward.
func (c *Client) Probe(ctx context.Context) bool {
	return c.Status(ctx).Available
}

// Status describes the daemon for operator-facing surfaces.
type Status struct {
	Available bool   `json:"available"`
	Model     string `json:"model"`
	Message   string `json:"message"`
}

// Status checks liveness and whether the configured model is installed.
func (c *Client) Status(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return Status{Model: c.cfg.Model, Message: "bad daemon url"}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Status{Model: c.cfg.Model, Message: "daemon not responding"}
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return Status{Model: c.cfg.Model, Message: fmt.Sprintf("daemon status %d", resp.StatusCode)}
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return Status{Model: c.cfg.Model, Message: "unreadable model listing"}
	}
	for _, m := range tags.Models {
		if strings.Contains(m.Name, c.cfg.Model) {
			return Status{Available: true, Model: c.cfg.Model, Message: "ready"}
		}
	}
	return Status{Model: c.cfg.Model, Message: fmt.Sprintf("model %s not installed", c.cfg.Model)}
}

// Extract implements llm.Extractor against the daemon's generate endpoint.
func (c *Client) Extract(ctx context.Context, req llm.Request) ([]entity.Question, error) {
	rid := uuid.New().String()
	start := time.Now()
	text := llm.TruncateText(llm.CleanInput(req.Text), c.cfg.MaxInput)
	if text == "" {
		return nil, llm.Unavailable("ollama: empty text after sanitize")
	}

	c.logger.Info("llm.ollama.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(text),
		"max_questions", req.MaxQuestions,
	)

	body := map[string]any{
		"model":  c.cfg.Model,
		"prompt": llm.BuildPlainPrompt(text, req.MaxQuestions),
		"stream": false,
		"options": map[string]any{
			"temperature": 0.1,
			"num_predict": 2048,
		},
	}

	raw, _, err := llm.SendJSON(ctx, c.httpClient, c.cfg.BaseURL+"/api/generate", body, nil, c.logger)
	if err != nil {
		c.logger.Warn("llm.ollama.extract.http_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, llm.Unavailable("ollama: %v", err)
	}

	var gen struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, llm.Unavailable("ollama: decode response: %v", err)
	}
	if strings.TrimSpace(gen.Response) == "" {
		return nil, llm.Unavailable("ollama: no completion in response")
	}

	qs, err := llm.DecodeQuestions(gen.Response)
	if err != nil {
		return nil, llm.Unavailable("ollama: %v", err)
	}

	c.logger.Info("llm.ollama.extract.ok",
		"req_id", rid,
		"questions", len(qs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return qs, nil
}

var _ llm.Extractor = (*Client)(nil)
