// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	DirectoryPath string
	AudioDir      string
	AudioTTL      time.Duration // grace period after an artifact is served
	AudioMaxAge   time.Duration // janitor sweep threshold for unfetched artifacts

	MaxFieldRetries  int
	MatchLimit       int
	ListLimit        int
	MatchCutoff      float64
	DirectoryPhrases []string

	SpeechLang string

	OpenAI OpenAIConfig
	Kafka  KafkaConfig
}

// OpenAIConfig controls the generative fallback responder. An empty
// APIKey disables it.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// KafkaConfig controls completion event publishing.
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/verify.db"),

		DirectoryPath: getEnv("DIRECTORY_PATH", "./static/user.json"),
		AudioDir:      getEnv("AUDIO_DIR", "./temp_audio"),
		AudioTTL:      time.Duration(getEnvInt("AUDIO_TTL_SECONDS", 30)) * time.Second,
		AudioMaxAge:   time.Duration(getEnvInt("AUDIO_MAX_AGE_MINUTES", 10)) * time.Minute,

		MaxFieldRetries:  getEnvInt("MAX_FIELD_RETRIES", 3),
		MatchLimit:       getEnvInt("COMPANY_MATCH_LIMIT", 5),
		ListLimit:        getEnvInt("COMPANY_LIST_LIMIT", 10),
		MatchCutoff:      getEnvFloat("COMPANY_MATCH_CUTOFF", 0.4),
		DirectoryPhrases: splitCSV(getEnv("DIRECTORY_PHRASES", "")),

		SpeechLang: getEnv("SPEECH_LANG", "en"),

		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Model:   getEnv("OPENAI_MODEL", ""),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: splitCSV(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.DirectoryPath == "" {
		return fmt.Errorf("DIRECTORY_PATH cannot be empty")
	}
	if c.AudioDir == "" {
		return fmt.Errorf("AUDIO_DIR cannot be empty")
	}
	if c.AudioTTL <= 0 {
		return fmt.Errorf("AUDIO_TTL_SECONDS must be > 0")
	}
	if c.AudioMaxAge <= 0 {
		return fmt.Errorf("AUDIO_MAX_AGE_MINUTES must be > 0")
	}
	if c.MaxFieldRetries <= 0 {
		return fmt.Errorf("MAX_FIELD_RETRIES must be > 0")
	}
	if c.MatchLimit <= 0 {
		return fmt.Errorf("COMPANY_MATCH_LIMIT must be > 0")
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("COMPANY_LIST_LIMIT must be > 0")
	}
	if c.MatchCutoff <= 0 || c.MatchCutoff > 1 {
		return fmt.Errorf("COMPANY_MATCH_CUTOFF must be in (0, 1]")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS cannot be empty when KAFKA_ENABLED is set")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
