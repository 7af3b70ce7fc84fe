// Package config loads the application configuration: YAML file first, then
// environment overrides. Every field has a working default so the binary
// runs with no config at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Log   LogConfig   `yaml:"log"`
	LLM   LLMConfig   `yaml:"llm"`
	HTTP  HTTPConfig  `yaml:"http"`
	Redis RedisConfig `yaml:"redis"`
}

// LogConfig controls the slog setup.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// LLMConfig points at an OpenAI-compatible chat endpoint. An empty APIKey
// disables the model paths; everything then runs deterministically.
type LLMConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxRetries int    `yaml:"max_retries"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// RedisConfig configures the optional clarification context store. An empty
// Addr keeps context in process memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLSec   int    `yaml:"ttl_sec"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		LLM: LLMConfig{
			BaseURL:    "https://api.openai.com/v1",
			Model:      "gpt-4o-mini",
			TimeoutSec: 30,
			MaxRetries: 2,
		},
		HTTP:  HTTPConfig{Addr: ":8080"},
		Redis: RedisConfig{TTLSec: 1800},
	}
}

// Load reads path (optional) over the defaults, then applies environment
// overrides. A missing file is an error only when the path was explicit.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Log.Level, "MEALGRAPH_LOG_LEVEL")
	setString(&c.Log.Format, "MEALGRAPH_LOG_FORMAT")
	setString(&c.LLM.BaseURL, "MEALGRAPH_LLM_BASE_URL")
	setString(&c.LLM.APIKey, "MEALGRAPH_LLM_API_KEY")
	setString(&c.LLM.Model, "MEALGRAPH_LLM_MODEL")
	setInt(&c.LLM.TimeoutSec, "MEALGRAPH_LLM_TIMEOUT_SEC")
	setInt(&c.LLM.MaxRetries, "MEALGRAPH_LLM_MAX_RETRIES")
	setString(&c.HTTP.Addr, "MEALGRAPH_HTTP_ADDR")
	setString(&c.Redis.Addr, "MEALGRAPH_REDIS_ADDR")
	setString(&c.Redis.Password, "MEALGRAPH_REDIS_PASSWORD")
	setInt(&c.Redis.DB, "MEALGRAPH_REDIS_DB")
	setInt(&c.Redis.TTLSec, "MEALGRAPH_REDIS_TTL_SEC")

	// The conventional key works too when the dedicated one is unset.
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
