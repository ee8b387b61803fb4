package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/moyklass/moyklass"
)

// EnvPrefix prefixes every environment override, e.g. MOYKLASS_LOGGING_LEVEL.
const EnvPrefix = "MOYKLASS"

const placeholderAPIKey = "your-api-key-here"

// Load loads the configuration from file, .env and the environment. When
// configPath is empty a missing config file is not an error; the API key may
// then come from MOYKLASS_API_KEY.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(configPath); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".moyklass"))
		}

		// Check /etc
		v.AddConfigPath("/etc/moyklass/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Moyklass defaults
	v.SetDefault("moyklass.base_url", moyklass.DefaultBaseURL)
	v.SetDefault("moyklass.timeout", moyklass.DefaultTimeout)
	v.SetDefault("moyklass.max_redirects", moyklass.DefaultMaxRedirects)
	v.SetDefault("moyklass.user_agent", "")

	// Filter defaults
	v.SetDefault("filter.default_expression", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// bindEnv maps MOYKLASS_* variables onto config keys. The client settings use
// short names so that MOYKLASS_API_KEY works instead of MOYKLASS_MOYKLASS_API_KEY.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range map[string]string{
		"moyklass.api_key":       "MOYKLASS_API_KEY",
		"moyklass.base_url":      "MOYKLASS_BASE_URL",
		"moyklass.timeout":       "MOYKLASS_TIMEOUT",
		"moyklass.max_redirects": "MOYKLASS_MAX_REDIRECTS",
		"moyklass.user_agent":    "MOYKLASS_USER_AGENT",
	} {
		_ = v.BindEnv(key, env)
	}
}

// loadDotEnv reads .env from the working directory and, when a config file is
// given, from the config file's directory. Variables already set win.
func loadDotEnv(configPath string) error {
	files := []string{".env"}
	if configPath != "" {
		if dir := filepath.Dir(configPath); dir != "." {
			files = append(files, filepath.Join(dir, ".env"))
		}
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}
	}
	return nil
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key rather than the Go field name.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return describeFieldError(fieldErrs[0])
		}
		return err
	}

	if cfg.Moyklass.APIKey == placeholderAPIKey {
		return fmt.Errorf("moyklass.api_key must be set to a valid API key")
	}

	return nil
}

func describeFieldError(fe validator.FieldError) error {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")

	switch fe.Tag() {
	case "required":
		if key == "moyklass.api_key" {
			return fmt.Errorf("moyklass.api_key is required (set it in the config file or %s_API_KEY)", EnvPrefix)
		}
		return fmt.Errorf("%s is required", key)
	case "url":
		return fmt.Errorf("%s must be a valid URL: %v", key, fe.Value())
	case "oneof":
		return fmt.Errorf("invalid %s: %v (must be one of: %s)", key, fe.Value(), fe.Param())
	case "gt", "gte":
		return fmt.Errorf("%s must be %s %s", key, map[string]string{"gt": ">", "gte": ">="}[fe.Tag()], fe.Param())
	default:
		return fmt.Errorf("%s failed %s validation", key, fe.Tag())
	}
}
