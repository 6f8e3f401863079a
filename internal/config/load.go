package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TASKAPI_SERVER_PORT.
const EnvPrefix = "TASKAPI"

// setDefaults registers the default value of every key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.request_timeout", "15s")

	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("store.url", "mongodb://localhost:27017")
	v.SetDefault("store.database", "vibe_app")
	v.SetDefault("store.auto_migrate", true)

	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "30s")

	v.SetDefault("suggest.provider", ProviderRules)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.timeout", "10s")
}

// Load configuration from environment variables and optionally a config.yaml
// found in one of searchPaths (the working directory when none are given).
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(searchPaths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy variable names are honoured after the prefixed ones.
	if err := v.BindEnv("store.url", EnvPrefix+"_STORE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind store.url: %w", err)
	}
	if err := v.BindEnv("store.database", EnvPrefix+"_STORE_DATABASE", "DATABASE_NAME"); err != nil {
		return nil, fmt.Errorf("failed to bind store.database: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags and the cross-section rules.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterStructValidation(validateProvider, Config{})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// validateProvider requires a Gemini API key when the gemini provider is selected.
func validateProvider(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Suggest.Provider == ProviderGemini && cfg.LLM.GeminiAPIKey == "" {
		sl.ReportError(cfg.LLM.GeminiAPIKey, "LLM.GeminiAPIKey", "GeminiAPIKey", "required_for_gemini", "")
	}
}
