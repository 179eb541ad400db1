package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Supported text generation providers.
const (
	ProviderMistral = "mistral"
	ProviderGemini  = "gemini"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateLLM(&cfg.LLM)
	v.validateServer(&cfg.Server)
	v.validateStore(&cfg.Store)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateLLM(cfg *LLMConfig) {
	switch cfg.Provider {
	case ProviderMistral, ProviderGemini:
	default:
		v.addError("llm.provider", cfg.Provider, "must be one of: mistral, gemini")
	}

	if cfg.Model == "" {
		v.addError("llm.model", cfg.Model, "model required")
	}

	if cfg.Provider == ProviderMistral {
		if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			v.addError("llm.base_url", cfg.BaseURL, "must be an absolute URL")
		}
	}

	if d, err := time.ParseDuration(cfg.Timeout); err != nil {
		v.addError("llm.timeout", cfg.Timeout, "invalid duration format")
	} else if d <= 0 {
		v.addError("llm.timeout", cfg.Timeout, "must be positive")
	}

	if cfg.MaxRetries < 0 || cfg.MaxRetries > 10 {
		v.addError("llm.max_retries", cfg.MaxRetries, "must be between 0 and 10")
	}

	if cfg.RateLimitRPS < 0 {
		v.addError("llm.rate_limit_rps", cfg.RateLimitRPS, "must be >= 0")
	}
}

func (v *Validator) validateServer(cfg *ServerConfig) {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		v.addError("server.port", cfg.Port, "must be between 1 and 65535")
	}
}

func (v *Validator) validateStore(cfg *StoreConfig) {
	if cfg.Enabled && strings.TrimSpace(cfg.Path) == "" {
		v.addError("store.path", cfg.Path, "path required when store is enabled")
	}
}
