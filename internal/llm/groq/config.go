package groq

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Groq chat-completions client.
type Config struct {
	APIKey      string        // falls back to env GROQ_API_KEY
	BaseURL     string        // default https://api.groq.com/openai/v1
	Model       string        // default mixtral-8x7b-32768
	Temperature float32       // kept low for deterministic structured output
	Timeout     time.Duration // http client timeout
	MaxInput    int           // input truncation, default 8000 chars
	RetryFor    time.Duration // max elapsed retry window for transient errors
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "mixtral-8x7b-32768"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxInput <= 0 {
		cfg.MaxInput = 8000
	}
	if cfg.RetryFor <= 0 {
		cfg.RetryFor = 15 * time.Second
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
