package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// DefaultPersonaPrompt is used when neither config nor persona file provide one.
const DefaultPersonaPrompt = "You are a helpful assistant. Be concise and safe."

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "123" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Bot       BotConfig       `json:"bot"`
	Discord   DiscordConfig   `json:"discord"`
	Providers ProvidersConfig `json:"providers"`
	Weather   WeatherConfig   `json:"weather"`
}

// BotConfig holds the decision-pipeline knobs.
type BotConfig struct {
	PersonaPrompt         string `env:"REEFBOT_BOT_PERSONA_PROMPT"          json:"persona_prompt"`
	PersonaFile           string `env:"REEFBOT_BOT_PERSONA_FILE"            json:"persona_file,omitempty"`
	InputMaxChars         int    `env:"REEFBOT_BOT_INPUT_MAX_CHARS"         json:"input_max_chars"`
	ReplyMaxChars         int    `env:"REEFBOT_BOT_REPLY_MAX_CHARS"         json:"reply_max_chars"`
	RateLimitSeconds      int    `env:"REEFBOT_BOT_RATE_LIMIT_SECONDS"      json:"rate_limit_seconds"`
	RequestTimeoutSeconds int    `env:"REEFBOT_BOT_REQUEST_TIMEOUT_SECONDS" json:"request_timeout_seconds"`
}

type DiscordConfig struct {
	Enabled   bool                `env:"REEFBOT_DISCORD_ENABLED"    json:"enabled"`
	Token     string              `env:"REEFBOT_DISCORD_TOKEN"      json:"token"`
	GuildID   string              `env:"REEFBOT_DISCORD_GUILD_ID"   json:"guild_id,omitempty"`
	AllowFrom FlexibleStringSlice `env:"REEFBOT_DISCORD_ALLOW_FROM" json:"allow_from,omitempty"`
}

type ProvidersConfig struct {
	Default   string         `env:"REEFBOT_PROVIDERS_DEFAULT" json:"default"`
	OpenAI    ProviderConfig `json:"openai"`
	Anthropic ProviderConfig `json:"anthropic"`
	Retry     RetryConfig    `json:"retry"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	APIBase string `json:"api_base,omitempty"`
	Model   string `json:"model,omitempty"`
}

// RetryConfig governs the generation port's bounded retry.
type RetryConfig struct {
	MaxAttempts   int `env:"REEFBOT_PROVIDERS_RETRY_MAX_ATTEMPTS"   json:"max_attempts"`
	BackoffBaseMS int `env:"REEFBOT_PROVIDERS_RETRY_BACKOFF_BASE_MS" json:"backoff_base_ms"`
}

type WeatherConfig struct {
	GeocodeBase  string `env:"REEFBOT_WEATHER_GEOCODE_BASE"  json:"geocode_base"`
	ForecastBase string `env:"REEFBOT_WEATHER_FORECAST_BASE" json:"forecast_base"`
	Language     string `env:"REEFBOT_WEATHER_LANGUAGE"      json:"language"`
}

func DefaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			PersonaPrompt:         DefaultPersonaPrompt,
			InputMaxChars:         4000,
			ReplyMaxChars:         1500,
			RateLimitSeconds:      5,
			RequestTimeoutSeconds: 60,
		},
		Discord: DiscordConfig{
			Enabled: true,
		},
		Providers: ProvidersConfig{
			Default:   "openai",
			OpenAI:    ProviderConfig{Model: "gpt-4o-mini"},
			Anthropic: ProviderConfig{Model: "claude-sonnet-4-5"},
			Retry:     RetryConfig{MaxAttempts: 3, BackoffBaseMS: 200},
		},
		Weather: WeatherConfig{
			GeocodeBase:  "https://geocoding-api.open-meteo.com",
			ForecastBase: "https://api.open-meteo.com",
			Language:     "en",
		},
	}
}

// LoadConfig reads the JSON config at path, then applies env var overrides.
// A missing file is not an error: defaults plus env apply.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Persona resolves the process-wide persona prompt: the persona file wins
// when it exists and is non-blank, then the configured prompt, then the
// built-in default. Loaded once at startup; hot reload is out of scope.
func (c *Config) Persona() string {
	if c.Bot.PersonaFile != "" {
		if data, err := os.ReadFile(c.Bot.PersonaFile); err == nil {
			if txt := strings.TrimSpace(string(data)); txt != "" {
				return txt
			}
		}
	}
	if c.Bot.PersonaPrompt != "" {
		return c.Bot.PersonaPrompt
	}
	return DefaultPersonaPrompt
}
