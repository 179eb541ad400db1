package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (VENTUREPILOT_LLM_MODEL, ...).
const EnvPrefix = "VENTUREPILOT"

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: EnvPrefix,
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: EnvPrefix,
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (VENTUREPILOT_*, then MISTRAL_API_KEY / GEMINI_API_KEY)
// 3. Project config (.venturepilot.yaml in current directory)
// 4. User config (~/.config/venturepilot/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".venturepilot")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "venturepilot"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerKeyFromEnv(cfg.LLM.Provider)
	}

	return &cfg, nil
}

// providerKeyFromEnv reads the conventional provider variable so existing
// deployments keep working without the VENTUREPILOT_ prefix.
func providerKeyFromEnv(provider string) string {
	switch provider {
	case ProviderGemini:
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	default:
		return os.Getenv("MISTRAL_API_KEY")
	}
}

// setDefaults configures default values.
func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	l.v.SetDefault("llm.provider", ProviderMistral)
	l.v.SetDefault("llm.api_key", "")
	l.v.SetDefault("llm.model", "mistral-small-latest")
	l.v.SetDefault("llm.base_url", "https://api.mistral.ai/v1")
	l.v.SetDefault("llm.timeout", "60s")
	l.v.SetDefault("llm.max_retries", 3)
	l.v.SetDefault("llm.rate_limit_rps", 2.0)

	l.v.SetDefault("data.dir", "./data")

	l.v.SetDefault("server.host", "0.0.0.0")
	l.v.SetDefault("server.port", 8000)
	l.v.SetDefault("server.cors_origins", []string{"*"})

	l.v.SetDefault("store.enabled", true)
	l.v.SetDefault("store.path", ".venturepilot/analyses.db")
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}
