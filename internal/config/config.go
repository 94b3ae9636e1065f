package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Analysis modes.
const (
	ModeFull      = "full"
	ModeStreaming = "streaming"
)

type Config struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Provider        string `yaml:"provider"`
	GroqAPIKey      string `yaml:"groq_api_key"`
	GroqModel       string `yaml:"groq_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`

	Mode               string `yaml:"mode"`
	MaxUploadBytes     int64  `yaml:"max_upload_bytes"`
	ExcerptChars       int    `yaml:"excerpt_chars"`
	MinTranscriptChars int    `yaml:"min_transcript_chars"`
	ReleaseMemory      bool   `yaml:"release_memory"`

	NatsURL       string `yaml:"nats_url"`
	NatsToken     string `yaml:"nats_token"`
	SlackBotToken string `yaml:"slack_bot_token"`
	SlackChannel  string `yaml:"slack_channel"`
}

func defaults() Config {
	return Config{
		Port:               8760,
		LogLevel:           "info",
		Provider:           "groq",
		GroqModel:          "llama-3.1-8b-instant",
		AnthropicModel:     "claude-sonnet-4-20250514",
		Mode:               ModeFull,
		MaxUploadBytes:     20 << 20,
		ExcerptChars:       25000,
		MinTranscriptChars: 10,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// WEDSUM_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("WEDSUM_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envInt("WEDSUM_PORT", cfg.Port)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.Provider = strings.ToLower(envStr("WEDSUM_PROVIDER", cfg.Provider))
	cfg.GroqAPIKey = envStr("GROQ_API_KEY", cfg.GroqAPIKey)
	cfg.GroqModel = envStr("GROQ_MODEL", cfg.GroqModel)
	cfg.AnthropicAPIKey = envStr("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.AnthropicModel = envStr("ANTHROPIC_MODEL", cfg.AnthropicModel)
	cfg.Mode = strings.ToLower(envStr("WEDSUM_MODE", cfg.Mode))
	cfg.MaxUploadBytes = envInt64("WEDSUM_MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.ExcerptChars = envInt("WEDSUM_EXCERPT_CHARS", cfg.ExcerptChars)
	cfg.MinTranscriptChars = envInt("WEDSUM_MIN_TRANSCRIPT_CHARS", cfg.MinTranscriptChars)
	cfg.ReleaseMemory = envBool("WEDSUM_RELEASE_MEMORY", cfg.ReleaseMemory)
	cfg.NatsURL = envStr("NATS_URL", cfg.NatsURL)
	cfg.NatsToken = envStr("NATS_TOKEN", cfg.NatsToken)
	cfg.SlackBotToken = envStr("SLACK_BOT_TOKEN", cfg.SlackBotToken)
	cfg.SlackChannel = envStr("SLACK_CHANNEL", cfg.SlackChannel)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// APIKey returns the server-side key for the configured provider.
func (c Config) APIKey() string {
	if c.Provider == "anthropic" {
		return c.AnthropicAPIKey
	}
	return c.GroqAPIKey
}

// Model returns the model name for the configured provider.
func (c Config) Model() string {
	if c.Provider == "anthropic" {
		return c.AnthropicModel
	}
	return c.GroqModel
}

func (c Config) validate() error {
	switch c.Provider {
	case "groq", "anthropic":
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	switch c.Mode {
	case ModeFull, ModeStreaming:
	default:
		return fmt.Errorf("unsupported mode %q", c.Mode)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
