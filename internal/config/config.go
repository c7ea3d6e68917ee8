package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Pipeline PipelineConfig
	Engine   EngineConfig
	Ollama   OllamaConfig
	Groq     GroqConfig
	HF       HFConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	AllowedOrigins  []string
}

// PipelineConfig holds extraction pipeline configuration
type PipelineConfig struct {
	UseAI               bool
	PreferLocal         bool
	ConfidenceThreshold int
	MaxQuestions        int
}

// EngineConfig holds in-process inference configuration
type EngineConfig struct {
	Model       string
	ModelDir    string
	LoadTimeout time.Duration
}

// OllamaConfig holds local daemon configuration
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GroqConfig holds primary cloud provider configuration
type GroqConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HFConfig holds secondary cloud provider configuration
type HFConfig struct {
	Token   string
	Model   string
	Timeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
			AllowedOrigins:  []string{getEnv("CORS_ORIGIN", "*")},
		},
		Pipeline: PipelineConfig{
			UseAI:               getEnvAsBool("USE_AI", true),
			PreferLocal:         getEnvAsBool("PREFER_LOCAL", false),
			ConfidenceThreshold: getEnvAsInt("CONFIDENCE_THRESHOLD", 80),
			MaxQuestions:        getEnvAsInt("MAX_QUESTIONS", 100),
		},
		Engine: EngineConfig{
			Model:       getEnv("ENGINE_MODEL", "phi-2"),
			ModelDir:    getEnv("ENGINE_MODEL_DIR", ""),
			LoadTimeout: getEnvAsDuration("ENGINE_LOAD_TIMEOUT", 2*time.Minute),
		},
		Ollama: OllamaConfig{
			BaseURL: getEnv("OLLAMA_URL", "http://localhost:11434"),
			Model:   getEnv("OLLAMA_MODEL", "mistral"),
			Timeout: getEnvAsDuration("OLLAMA_TIMEOUT", 60*time.Second),
		},
		Groq: GroqConfig{
			APIKey:  getEnv("GROQ_API_KEY", ""),
			Model:   getEnv("GROQ_MODEL", "mixtral-8x7b-32768"),
			Timeout: getEnvAsDuration("GROQ_TIMEOUT", 30*time.Second),
		},
		HF: HFConfig{
			Token:   getEnv("HF_API_KEY", ""),
			Model:   getEnv("HF_MODEL", "mistralai/Mistral-7B-Instruct-v0.1"),
			Timeout: getEnvAsDuration("HF_TIMEOUT", 45*time.Second),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.Pipeline.ConfidenceThreshold < 0 || c.Pipeline.ConfidenceThreshold > 100 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be in [0,100], got %d", c.Pipeline.ConfidenceThreshold)
	}
	if c.Pipeline.MaxQuestions < 1 {
		return fmt.Errorf("MAX_QUESTIONS must be positive, got %d", c.Pipeline.MaxQuestions)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
