package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{URL: "postgres://localhost:5432/careschedule"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Auth: AuthConfig{
			JWTSecret:     "0123456789abcdef0123456789abcdef",
			TokenLifetime: 24 * time.Hour,
		},
		Scheduling: SchedulingConfig{
			RepeatHorizonDays:  28,
			OfferTTL:           2 * time.Hour,
			DailyCoverageQuota: 50,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := Validate(validConfig())
	assert.NoError(t, err)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = ""

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "too-short"

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestValidate_HorizonOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduling.RepeatHorizonDays = 365

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestLoadFromPath(t *testing.T) {
	content := `
server:
  addr: ":8080"
database:
  url: "postgres://localhost:5432/careschedule"
redis:
  addr: "localhost:6379"
  db: 1
auth:
  jwtSecret: "0123456789abcdef0123456789abcdef"
  tokenLifetime: 24h
gmail:
  sender: "rota@example.com"
  tokenFile: "/etc/careschedule/gmail_token.json"
scheduling:
  repeatHorizonDays: 28
  offerTTL: 2h
  dailyCoverageQuota: 50
`
	path := filepath.Join(t.TempDir(), "careschedule_test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenLifetime)
	assert.Equal(t, "rota@example.com", cfg.Gmail.Sender)
	assert.Equal(t, 2*time.Hour, cfg.Scheduling.OfferTTL)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "careschedule_test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: valid"), 0644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
