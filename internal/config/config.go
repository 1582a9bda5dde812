package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the bridge configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Bridge  BridgeConfig  `yaml:"bridge"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"gte=0,lte=65535"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days" validate:"gte=0"`
	Level         string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Format        string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// BridgeConfig holds the emitter settings. Dir is the base bridge path; instruction
// files land in its "instructions" subdirectory.
type BridgeConfig struct {
	Enabled        bool   `yaml:"enabled"`
	TriggerKeyword string `yaml:"trigger_keyword" validate:"required"`
	Dir            string `yaml:"dir" validate:"required"`
}

// WebhookConfig holds authentication settings for the message endpoint.
// Secret enables HMAC signatures and takes precedence over Token.
type WebhookConfig struct {
	Secret string `yaml:"secret"`
	Token  string `yaml:"token"`
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 7070,
		},
		Logging: LoggingConfig{
			Dir:           "/var/log/cursorbridge",
			RetentionDays: 30,
			Level:         "info",
			Format:        "json",
		},
		Bridge: BridgeConfig{
			Enabled:        true,
			TriggerKeyword: "s2cursor",
		},
	}
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Substitute environment variables
	data = envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(varName)))
	})

	// Start with defaults
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the config for missing or out-of-range values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
