package config

import "time"

// Config holds all application configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Data   DataConfig   `mapstructure:"data"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig configures the generative text provider. An empty APIKey is a
// valid configuration: every agent then takes its deterministic path.
type LLMConfig struct {
	Provider     string  `mapstructure:"provider"`
	APIKey       string  `mapstructure:"api_key"`
	Model        string  `mapstructure:"model"`
	BaseURL      string  `mapstructure:"base_url"`
	Timeout      string  `mapstructure:"timeout"`
	MaxRetries   int     `mapstructure:"max_retries"`
	RateLimitRPS float64 `mapstructure:"rate_limit_rps"`
}

// Enabled reports whether a credential is configured.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// TimeoutDuration parses Timeout, defaulting to one minute.
func (c LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// DataConfig locates the document corpus loaded at startup.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StoreConfig configures analysis persistence.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
