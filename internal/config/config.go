package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/connect4/internal/domain"
)

type Config struct {
	Port            string
	GinMode         string
	AllowedOrigins  []string
	FrontendURL     string
	Rules           domain.Rules
	MaxGames        int
	GameIdleTimeout time.Duration
	CleanupInterval time.Duration
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")
	ginMode := GetEnv("GIN_MODE", "release")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" && trimmed != frontendURL {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	// Default rules for games created without explicit dimensions
	rules := domain.Rules{
		Columns: GetEnvAsInt("BOARD_COLUMNS", domain.Columns),
		Rows:    GetEnvAsInt("BOARD_ROWS", domain.Rows),
		Goal:    GetEnvAsInt("WIN_LENGTH", domain.ToWin),
	}
	if err := rules.Validate(); err != nil {
		log.Printf("Invalid board settings (%v), using defaults", err)
		rules = domain.DefaultRules()
	}

	return &Config{
		Port:            port,
		GinMode:         ginMode,
		AllowedOrigins:  allowedOrigins,
		FrontendURL:     frontendURL,
		Rules:           rules,
		MaxGames:        GetEnvAsInt("MAX_GAMES", 1000),
		GameIdleTimeout: GetEnvAsDuration("GAME_IDLE_TIMEOUT_MINUTES", 60*time.Minute, time.Minute),
		CleanupInterval: GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 10*time.Minute, time.Minute),
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads a positive integer count of unit.
func GetEnvAsDuration(key string, defaultValue, unit time.Duration) time.Duration {
	n := GetEnvAsInt(key, -1)
	if n <= 0 {
		return defaultValue
	}
	return time.Duration(n) * unit
}
