package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	// Artifact directories
	DataPath     string
	AnalysisPath string
	AccuracyPath string

	// PredictionCount is the length of each prediction list in reports
	PredictionCount int

	// AccuracyHighlightMin is the minimum match count surfaced as a best
	// performance in accuracy summaries
	AccuracyHighlightMin int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnvAsInt("PORT", 8080),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		DataPath:             getEnv("DATA_PATH", "./data"),
		AnalysisPath:         getEnv("ANALYSIS_PATH", "./analysis_history"),
		AccuracyPath:         getEnv("ACCURACY_PATH", "./accuracy_history"),
		PredictionCount:      getEnvAsInt("DEFAULT_PREDICTION_COUNT", 5),
		AccuracyHighlightMin: getEnvAsInt("ACCURACY_HIGHLIGHT_MIN", 3),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("DATA_PATH is required")
	}
	if c.AnalysisPath == "" {
		return fmt.Errorf("ANALYSIS_PATH is required")
	}
	if c.AccuracyPath == "" {
		return fmt.Errorf("ACCURACY_PATH is required")
	}
	if c.PredictionCount <= 0 {
		return fmt.Errorf("DEFAULT_PREDICTION_COUNT must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
