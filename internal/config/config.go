package config

import "time"

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Suggestion providers.
const (
	ProviderRules  = "rules"
	ProviderGemini = "gemini"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Store   StoreConfig   `mapstructure:"store" validate:"required"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Suggest SuggestConfig `mapstructure:"suggest" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel       string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

// StoreConfig selects and locates the document store.
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=mongo postgres"`
	URL    string `mapstructure:"url" validate:"required,url"`
	// Database is the MongoDB database name; unused by postgres.
	Database    string `mapstructure:"database" validate:"required_if=Driver mongo"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// CacheConfig enables the Redis list cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url" validate:"omitempty,url"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// Enabled reports whether a Redis cache is configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisURL != ""
}

// SuggestConfig selects the suggestion provider.
type SuggestConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=rules gemini"`
}

// LLMConfig contains all LLM integration related settings.
// GeminiAPIKey is required when the gemini provider is selected.
type LLMConfig struct {
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	ModelName    string        `mapstructure:"model_name" validate:"required"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"`
}
