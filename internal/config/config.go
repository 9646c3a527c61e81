package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a configuration from the first config.yaml found on the search path
func New() (*Config, error) {
	return load("")
}

// NewWithFile creates a configuration from an explicit config file
func NewWithFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/phish-trainer/")
		v.AddConfigPath("$HOME/.phish-trainer")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("PHISH_TRAINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Generator defaults
	v.SetDefault("generator.provider", "backend")
	v.SetDefault("generator.timeout", "30s")

	// Backend defaults
	v.SetDefault("backend.base_url", "http://localhost:3000")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", "15s")

	// Game defaults
	v.SetDefault("game.rounds", 3)
	v.SetDefault("game.round_seconds", 30)
	v.SetDefault("game.tick_interval", "1s")
	v.SetDefault("game.feedback_delay", "2s")
	v.SetDefault("game.user_email", "")

	// Synthesis defaults
	v.SetDefault("synth.body_length", 290)
	v.SetDefault("synth.max_attempts", 3)

	// Indicator defaults
	v.SetDefault("indicators.trusted_domains", []string{})

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 400)
	v.SetDefault("bedrock.temperature", 0.9)
	v.SetDefault("bedrock.top_p", 0.95)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-1.5-flash")
	v.SetDefault("gemini.max_tokens", 400)
	v.SetDefault("gemini.temperature", 0.9)
	v.SetDefault("gemini.top_p", 0.95)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model_name", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 400)
	v.SetDefault("openai.temperature", 0.9)
	v.SetDefault("openai.top_p", 0.95)

	// Store defaults
	v.SetDefault("store.type", "sqlite")
	v.SetDefault("store.retention", "0s")
	v.SetDefault("store.sqlite_path", "$HOME/.phish-trainer/scores.db")
	v.SetDefault("store.mysql_dsn", "user:password@tcp(localhost:3306)/phish_trainer")

	// SMTP defaults
	v.SetDefault("smtp.address", "localhost:25")
	v.SetDefault("smtp.helo_name", "localhost")
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "trainer@phish-trainer.local")
	v.SetDefault("smtp.timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// Set overrides a configuration value, typically from a command line flag
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
