package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrMissing marks a required setting that was not provided.
var ErrMissing = errors.New("missing required configuration")

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level     string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format    string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder string `yaml:"keys_order"`
	Dir       string `yaml:"dir"`
	File      string `yaml:"file"`
	// Profile is "debug"/"dev" for human readable output, anything else means prod.
	Profile string `yaml:"profile"`
}

// OpenAIConfig configures the chat-completion response source.
type OpenAIConfig struct {
	Key          string `yaml:"key" envconfig:"OPENAI_KEY"`
	Model        string `yaml:"model" envconfig:"OPENAI_MODEL"`
	BaseURL      string `yaml:"base_url" envconfig:"OPENAI_BASE_URL"`
	SystemPrompt string `yaml:"system_prompt"`
}

// BackendConfig points at the logging/generation server.
type BackendConfig struct {
	ServerAddr string `yaml:"server_addr" envconfig:"SERVER_ADDR"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen" envconfig:"METRICS_LISTEN"`
}

// BotConfig selects where replies come from and how sessions are scoped.
type BotConfig struct {
	ReplySource           string `yaml:"reply_source" envconfig:"BOT_REPLY_SOURCE"`
	Generator             string `yaml:"generator" envconfig:"BOT_GENERATOR"`
	SharedSession         bool   `yaml:"shared_session" envconfig:"BOT_SHARED_SESSION"`
	LogInteractions       *bool  `yaml:"log_interactions" envconfig:"BOT_LOG_INTERACTIONS"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" envconfig:"BOT_REQUEST_TIMEOUT_SECONDS"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	SourceEcho    = "echo"
	SourceOpenAI  = "openai"
	SourceBackend = "backend"
)

const (
	DefaultOpenAIModel    = "gpt-3.5-turbo"
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
	DefaultSystemPrompt   = "You are a helpful assistant."
	defaultRequestTimeout = 30
)

// Config aggregates the whole bot configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Logging  LoggingConfig  `yaml:"logging"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Backend  BackendConfig  `yaml:"backend"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Bot      BotConfig      `yaml:"bot"`
}

// Load reads an optional YAML file, the optional .env file and the environment.
// A missing file at path is not an error; the environment alone may configure the bot.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}

	// .env is optional and never overrides variables already set.
	_ = godotenv.Load()

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs validation of required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("%w: TOKEN", ErrMissing)
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" || rm == "polling" {
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = DefaultOpenAIModel
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.OpenAI.SystemPrompt == "" {
		cfg.OpenAI.SystemPrompt = DefaultSystemPrompt
	}
	cfg.OpenAI.Key = strings.TrimSpace(cfg.OpenAI.Key)
	cfg.Backend.ServerAddr = strings.TrimSpace(cfg.Backend.ServerAddr)

	reply, err := normalizeSource(cfg.Bot.ReplySource, SourceEcho, "bot.reply_source", SourceEcho, SourceOpenAI, SourceBackend)
	if err != nil {
		return err
	}
	cfg.Bot.ReplySource = reply

	gen, err := normalizeSource(cfg.Bot.Generator, SourceOpenAI, "bot.generator", SourceOpenAI, SourceBackend)
	if err != nil {
		return err
	}
	cfg.Bot.Generator = gen

	if cfg.Bot.LogInteractions == nil {
		on := true
		cfg.Bot.LogInteractions = &on
	}
	if cfg.Bot.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("bot.request_timeout_seconds must be >= 0")
	}
	if cfg.Bot.RequestTimeoutSeconds == 0 {
		cfg.Bot.RequestTimeoutSeconds = defaultRequestTimeout
	}
	return nil
}

// InteractionLogging reports whether prompt/reply pairs go to the backend.
func (c *Config) InteractionLogging() bool {
	return c.Bot.LogInteractions != nil && *c.Bot.LogInteractions && c.Backend.ServerAddr != ""
}

func normalizeSource(raw, def, field string, allowed ...string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return def, nil
	}
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q; allowed: %s", field, raw, strings.Join(allowed, ", "))
}
