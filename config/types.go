package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Moyklass MoyklassConfig `mapstructure:"moyklass"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// File is the config file that was read, empty when settings came from
	// defaults and the environment only.
	File string `mapstructure:"-"`
}

// MoyklassConfig holds Moyklass API connection details
type MoyklassConfig struct {
	APIKey       string        `mapstructure:"api_key" validate:"required"`
	BaseURL      string        `mapstructure:"base_url" validate:"required,url"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRedirects int           `mapstructure:"max_redirects" validate:"gte=0"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// FilterConfig contains filter definitions
type FilterConfig struct {
	DefaultExpression string                  `mapstructure:"default_expression"`
	Presets           map[string]PresetConfig `mapstructure:"presets" validate:"dive"`
}

// PresetConfig is a named filter expression
type PresetConfig struct {
	Expression  string `mapstructure:"expression" validate:"required"`
	Description string `mapstructure:"description"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Color  bool   `mapstructure:"color"`
}
