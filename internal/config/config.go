// Package config loads and validates per-environment application
// configuration from yaml files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// DatabaseConfig holds PostgreSQL settings
type DatabaseConfig struct {
	URL string `yaml:"url" validate:"required"`
}

// RedisConfig holds redis settings for the request quota store
type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"required"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// AuthConfig holds JWT signing settings
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwtSecret" validate:"required,min=32"`
	TokenLifetime time.Duration `yaml:"tokenLifetime" validate:"required"`
}

// GmailConfig holds the notification sender settings. TokenFile points at a
// pre-provisioned OAuth token; the server never runs an interactive flow.
type GmailConfig struct {
	Sender          string `yaml:"sender" validate:"omitempty,email"`
	CredentialsFile string `yaml:"credentialsFile,omitempty"`
	TokenFile       string `yaml:"tokenFile,omitempty"`
}

// SchedulingConfig holds the scheduling engine knobs
type SchedulingConfig struct {
	RepeatHorizonDays  int           `yaml:"repeatHorizonDays" validate:"required,min=1,max=90"`
	OfferTTL           time.Duration `yaml:"offerTTL" validate:"required"`
	DailyCoverageQuota int           `yaml:"dailyCoverageQuota" validate:"required,min=1"`
}

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" validate:"required"`
	Database   DatabaseConfig   `yaml:"database" validate:"required"`
	Redis      RedisConfig      `yaml:"redis" validate:"required"`
	Auth       AuthConfig       `yaml:"auth" validate:"required"`
	Gmail      GmailConfig      `yaml:"gmail,omitempty"`
	Scheduling SchedulingConfig `yaml:"scheduling" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration for the given environment.
// It looks for careschedule_<env>.yaml in the current directory first,
// then in the user's home directory.
func Load(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for careschedule_<env>.yaml in current directory
// and home directory
func findConfigFile(env string) (string, error) {
	configFileName := fmt.Sprintf("careschedule_%s.yaml", env)

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
