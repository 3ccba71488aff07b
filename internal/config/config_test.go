package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var configKeys = []string{
	"HTTP_ADDR", "DICTIONARY_DIR", "UPLOAD_DIR", "UNIT_SIZE", "MAX_UPLOAD_MB",
	"REVEAL_DELAY", "SESSION_TTL", "CORS_ORIGIN", "BOT_TOKEN", "PREFERENCES_BACKEND",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
}

// clearEnv blanks every config key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "./dictionary", cfg.DictionaryDir)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, 40, cfg.UnitSize)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Equal(t, 3*time.Second, cfg.RevealDelay)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, BackendMemory, cfg.Preferences)
	assert.Empty(t, cfg.BotToken)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "flashcards", cfg.Database.Name)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("UNIT_SIZE", "25")
	t.Setenv("REVEAL_DELAY", "1500ms")
	t.Setenv("PREFERENCES_BACKEND", "postgres")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 25, cfg.UnitSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.RevealDelay)
	assert.Equal(t, BackendPostgres, cfg.Preferences)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		contains string
	}{
		{name: "unit size not a number", env: map[string]string{"UNIT_SIZE": "forty"}, contains: "UNIT_SIZE"},
		{name: "unit size zero", env: map[string]string{"UNIT_SIZE": "0"}, contains: "UNIT_SIZE"},
		{name: "upload limit negative", env: map[string]string{"MAX_UPLOAD_MB": "-1"}, contains: "MAX_UPLOAD_MB"},
		{name: "bad reveal delay", env: map[string]string{"REVEAL_DELAY": "soon"}, contains: "REVEAL_DELAY"},
		{name: "bad session ttl", env: map[string]string{"SESSION_TTL": "0s"}, contains: "SESSION_TTL"},
		{name: "unknown backend", env: map[string]string{"PREFERENCES_BACKEND": "redis"}, contains: "PREFERENCES_BACKEND"},
		{name: "postgres without password", env: map[string]string{"PREFERENCES_BACKEND": "postgres"}, contains: "DB_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
