package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/iamasit07/connect4/internal/domain"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FRONTEND_URL", "ALLOWED_ORIGINS", "BOARD_COLUMNS", "BOARD_ROWS",
		"WIN_LENGTH", "MAX_GAMES", "GAME_IDLE_TIMEOUT_MINUTES", "CLEANUP_INTERVAL_MINUTES", "GIN_MODE"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Rules != domain.DefaultRules() {
		t.Errorf("Rules = %+v", cfg.Rules)
	}
	if cfg.MaxGames != 1000 {
		t.Errorf("MaxGames = %d", cfg.MaxGames)
	}
	if cfg.GameIdleTimeout != time.Hour || cfg.CleanupInterval != 10*time.Minute {
		t.Errorf("timeouts = %s, %s", cfg.GameIdleTimeout, cfg.CleanupInterval)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"http://localhost:5173"}) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FRONTEND_URL", "https://four.example.com")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com ,,https://four.example.com")
	t.Setenv("BOARD_COLUMNS", "9")
	t.Setenv("BOARD_ROWS", "7")
	t.Setenv("WIN_LENGTH", "5")
	t.Setenv("GAME_IDLE_TIMEOUT_MINUTES", "5")

	cfg := LoadConfig()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	want := []string{"https://four.example.com", "https://a.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	if cfg.Rules != (domain.Rules{Columns: 9, Rows: 7, Goal: 5}) {
		t.Errorf("Rules = %+v", cfg.Rules)
	}
	if cfg.GameIdleTimeout != 5*time.Minute {
		t.Errorf("GameIdleTimeout = %s", cfg.GameIdleTimeout)
	}
}

func TestLoadConfigFallsBackOnBadValues(t *testing.T) {
	t.Setenv("BOARD_COLUMNS", "2")
	t.Setenv("BOARD_ROWS", "2")
	t.Setenv("WIN_LENGTH", "4")
	t.Setenv("MAX_GAMES", "lots")
	t.Setenv("CLEANUP_INTERVAL_MINUTES", "-3")

	cfg := LoadConfig()

	if cfg.Rules != domain.DefaultRules() {
		t.Errorf("Rules = %+v, want defaults", cfg.Rules)
	}
	if cfg.MaxGames != 1000 {
		t.Errorf("MaxGames = %d, want default", cfg.MaxGames)
	}
	if cfg.CleanupInterval != 10*time.Minute {
		t.Errorf("CleanupInterval = %s, want default", cfg.CleanupInterval)
	}
}
