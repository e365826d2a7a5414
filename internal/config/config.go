package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration
type Config struct {
	AppName        string
	UserID         string
	LogLevel       string
	QueryTimeout   time.Duration
	QueryDelay     time.Duration
	EnvFile        string
	KeyringService string
	TranscriptPath string
	AgentFile      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	timeout, err := durationEnv("QUERY_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	delay, err := durationEnv("QUERY_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		AppName:        stringEnv("APP_NAME", "simple-agent"),
		UserID:         stringEnv("AGENT_USER_ID", "user"),
		LogLevel:       stringEnv("LOG_LEVEL", "info"),
		QueryTimeout:   timeout,
		QueryDelay:     delay,
		EnvFile:        stringEnv("ENV_FILE", ".env"),
		KeyringService: stringEnv("KEYRING_SERVICE", "simple-agent"),
		TranscriptPath: os.Getenv("AGENT_TRANSCRIPT"),
		AgentFile:      os.Getenv("AGENT_FILE"),
	}, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
