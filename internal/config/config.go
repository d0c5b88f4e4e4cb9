package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Vovarama1992/auv-mission-bridge/internal/ai"
)

var (
	ErrMissingToken    = errors.New("inference.apiKey is required (set HF_TOKEN)")
	ErrInvalidTimeout  = errors.New("inference.timeout must be > 0")
	ErrMissingDefaults = errors.New("defaults.path cannot be empty")
)

// Config holds process settings for the bridge.
type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
	Defaults  DefaultsConfig
	Audit     AuditConfig
	Gateway   GatewayConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port string
}

// InferenceConfig is handed to ai.NewOpenAIClient; nothing downstream reads env.
type InferenceConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type DefaultsConfig struct {
	// Path of the persisted fallback document (.json, .yaml or .yml)
	Path  string
	Watch bool
}

type AuditConfig struct {
	// DatabaseURL enables the Postgres event sink when set
	DatabaseURL string
	Buffer      int
}

type GatewayConfig struct {
	// URL enables dispatch of accepted documents when set
	URL     string
	Token   string
	Timeout time.Duration
}

type LoggingConfig struct {
	Level      string
	Structured bool
}

// Load reads an optional .env file and then builds the config from the environment.
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)
	return DefaultConfig()
}

// DefaultConfig returns the configuration derived from the current environment.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Inference: InferenceConfig{
			APIKey:  os.Getenv("HF_TOKEN"),
			BaseURL: getEnvOrDefault("INFERENCE_BASE_URL", ai.DefaultBaseURL),
			Model:   getEnvOrDefault("INFERENCE_MODEL", ai.DefaultModel),
			Timeout: getEnvDurationOrDefault("INFERENCE_TIMEOUT", 30*time.Second),
		},
		Defaults: DefaultsConfig{
			Path:  getEnvOrDefault("DEFAULT_CONFIG_PATH", "default_config.json"),
			Watch: getEnvBoolOrDefault("WATCH_DEFAULT_CONFIG", true),
		},
		Audit: AuditConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Buffer:      getEnvIntOrDefault("AUDIT_BUFFER", 256),
		},
		Gateway: GatewayConfig{
			URL:     os.Getenv("VEHICLE_GATEWAY_URL"),
			Token:   os.Getenv("VEHICLE_GATEWAY_TOKEN"),
			Timeout: getEnvDurationOrDefault("VEHICLE_GATEWAY_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			Structured: getEnvBoolOrDefault("STRUCTURED_LOGGING", false),
		},
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Inference.APIKey == "" {
		return ErrMissingToken
	}
	if c.Inference.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Defaults.Path == "" {
		return ErrMissingDefaults
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server.port cannot be empty")
	}
	return nil
}

// AI returns the explicit client configuration.
func (c *Config) AI() ai.Config {
	return ai.Config{
		APIKey:  c.Inference.APIKey,
		BaseURL: c.Inference.BaseURL,
		Model:   c.Inference.Model,
	}
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
