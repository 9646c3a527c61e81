package config

import "time"

// GeneratorConfig selects the text generation provider
type GeneratorConfig struct {
	Provider string
	Timeout  time.Duration
}

// BackendConfig represents the configuration for the game backend REST API
type BackendConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// GameConfig represents the round controller settings
type GameConfig struct {
	Rounds        int
	RoundSeconds  int
	TickInterval  time.Duration
	FeedbackDelay time.Duration
	UserEmail     string
}

// SynthConfig represents the email synthesis settings
type SynthConfig struct {
	BodyLength  int
	MaxAttempts int
}

// IndicatorsConfig represents the indicator evaluator settings
type IndicatorsConfig struct {
	TrustedDomains []string
}

// StoreConfig represents the local key-value store settings
type StoreConfig struct {
	Type       string
	Retention  time.Duration
	SQLitePath string
	MySQLDSN   string
}

// SMTPConfig represents the outbound mail relay used by send-sample
type SMTPConfig struct {
	Address  string
	HeloName string
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GetGenerator returns the generator configuration
func (c *Config) GetGenerator() GeneratorConfig {
	return GeneratorConfig{
		Provider: c.GetString("generator.provider"),
		Timeout:  c.v.GetDuration("generator.timeout"),
	}
}

// GetBackend returns the backend configuration
func (c *Config) GetBackend() BackendConfig {
	return BackendConfig{
		BaseURL: c.GetString("backend.base_url"),
		Token:   c.GetString("backend.token"),
		Timeout: c.v.GetDuration("backend.timeout"),
	}
}

// GetGame returns the game configuration
func (c *Config) GetGame() GameConfig {
	return GameConfig{
		Rounds:        c.GetInt("game.rounds"),
		RoundSeconds:  c.GetInt("game.round_seconds"),
		TickInterval:  c.v.GetDuration("game.tick_interval"),
		FeedbackDelay: c.v.GetDuration("game.feedback_delay"),
		UserEmail:     c.GetString("game.user_email"),
	}
}

// GetSynth returns the synthesis configuration
func (c *Config) GetSynth() SynthConfig {
	return SynthConfig{
		BodyLength:  c.GetInt("synth.body_length"),
		MaxAttempts: c.GetInt("synth.max_attempts"),
	}
}

// GetIndicators returns the indicator evaluator configuration
func (c *Config) GetIndicators() IndicatorsConfig {
	return IndicatorsConfig{
		TrustedDomains: c.GetStringSlice("indicators.trusted_domains"),
	}
}

// GetStore returns the store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:       c.GetString("store.type"),
		Retention:  c.v.GetDuration("store.retention"),
		SQLitePath: c.GetString("store.sqlite_path"),
		MySQLDSN:   c.GetString("store.mysql_dsn"),
	}
}

// GetSMTP returns the SMTP configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Address:  c.GetString("smtp.address"),
		HeloName: c.GetString("smtp.helo_name"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
		Timeout:  c.v.GetDuration("smtp.timeout"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}
