package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Preference store backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	HTTPAddr      string
	DictionaryDir string
	UploadDir     string
	UnitSize      int
	MaxUploadMB   int
	RevealDelay   time.Duration
	SessionTTL    time.Duration
	CORSOrigin    string
	BotToken      string
	Preferences   string
	Database      DatabaseConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	unitSize, err := getEnvInt("UNIT_SIZE", 40)
	if err != nil {
		return nil, err
	}
	maxUploadMB, err := getEnvInt("MAX_UPLOAD_MB", 10)
	if err != nil {
		return nil, err
	}
	revealDelay, err := getEnvDuration("REVEAL_DELAY", 3*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getEnvDuration("SESSION_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":5000"),
		DictionaryDir: getEnv("DICTIONARY_DIR", "./dictionary"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		UnitSize:      unitSize,
		MaxUploadMB:   maxUploadMB,
		RevealDelay:   revealDelay,
		SessionTTL:    sessionTTL,
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
		BotToken:      os.Getenv("BOT_TOKEN"),
		Preferences:   getEnv("PREFERENCES_BACKEND", BackendMemory),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "flashcards"),
			User:     getEnv("DB_USER", "flashcards"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	// Validate fields
	if cfg.UnitSize < 1 {
		return nil, fmt.Errorf("UNIT_SIZE must be positive")
	}
	if cfg.MaxUploadMB < 1 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if cfg.RevealDelay <= 0 {
		return nil, fmt.Errorf("REVEAL_DELAY must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	switch cfg.Preferences {
	case BackendMemory:
	case BackendPostgres:
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required for the postgres preference backend")
		}
	default:
		return nil, fmt.Errorf("PREFERENCES_BACKEND must be %q or %q", BackendMemory, BackendPostgres)
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
