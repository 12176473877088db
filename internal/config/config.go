package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"kitaku/models"
)

// Load initializes configuration from environment variables
func Load() (*models.Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg models.Config

	cfg.YahooClientID = os.Getenv("YAHOO_CLIENT_ID")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getEnvWithDefault("GEMINI_MODEL", "gemini-2.0-flash-lite")

	cfg.Latitude = getEnvFloatWithDefault("DEFAULT_LATITUDE", 34.7619)
	cfg.Longitude = getEnvFloatWithDefault("DEFAULT_LONGITUDE", 135.6283)

	cfg.TimetableFile = getEnvWithDefault("TIMETABLE_FILE", "keihan_neyagawa.csv")
	cfg.TimetableDSN = os.Getenv("TIMETABLE_DSN")

	cfg.WalkMinutes = getEnvIntWithDefault("WALK_MINUTES", 10)
	cfg.SafetyBufferMin = getEnvIntWithDefault("SAFETY_BUFFER_MINUTES", 0)
	cfg.HorizonMinutes = getEnvIntWithDefault("HORIZON_MINUTES", 60)
	cfg.ForecastPoints = getEnvIntWithDefault("FORECAST_POINTS", 6)

	cfg.RainMinMM = getEnvFloatWithDefault("RAIN_MIN_MM", 0.1)
	cfg.RainRiskMM = getEnvFloatWithDefault("RAIN_RISK_MM", 1.0)

	cfg.MaxOptions = getEnvIntWithDefault("MAX_OPTIONS", 3)
	cfg.MinConfidence = getEnvFloatWithDefault("MIN_CONFIDENCE", 0.0)
	cfg.FlatPatternCaution = getEnvBoolWithDefault("FLAT_PATTERN_CAUTION", true)

	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
