// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string    `mapstructure:"port"`
	MaxUploadMB int64     `mapstructure:"max_upload_mb"`
	ScratchDir  string    `mapstructure:"scratch_dir"`
	LogLevel    string    `mapstructure:"log_level"`
	LogFormat   string    `mapstructure:"log_format"` // text|json
	LLM         LLMConfig `mapstructure:",squash"`
}

type LLMConfig struct {
	Provider     string        `mapstructure:"llm_provider"` // groq|openai|ollama|mock
	Model        string        `mapstructure:"llm_model"`
	BaseURL      string        `mapstructure:"llm_base_url"`
	GroqAPIKey   string        `mapstructure:"groq_api_key"`
	OpenAIAPIKey string        `mapstructure:"openai_api_key"`
	OllamaURL    string        `mapstructure:"ollama_url"`
	Timeout      time.Duration `mapstructure:"llm_timeout"`
}

// APIKey returns the credential for the configured provider.
func (c LLMConfig) APIKey() string {
	if strings.EqualFold(c.Provider, "openai") {
		return c.OpenAIAPIKey
	}
	return c.GroqAPIKey
}

func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }

var keys = []string{
	"port", "max_upload_mb", "scratch_dir", "log_level", "log_format",
	"llm_provider", "llm_model", "llm_base_url", "groq_api_key", "openai_api_key",
	"ollama_url", "llm_timeout",
}

// Load reads .env files (missing ones are ignored) and then the environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else {
		for _, f := range envFiles {
			if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	v := viper.New()
	v.SetDefault("port", "8081")
	v.SetDefault("max_upload_mb", 64)
	v.SetDefault("scratch_dir", filepath.Join(os.TempDir(), "docsum"))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("llm_provider", "groq")
	v.SetDefault("ollama_url", "http://localhost:11434")
	v.SetDefault("llm_timeout", "90s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max_upload_mb must be positive, got %d", cfg.MaxUploadMB)
	}
	return &cfg, nil
}
