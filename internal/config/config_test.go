package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "VITE_GEMINI_API_KEY", "GEMINI_TIMEOUT_SECONDS", "AI_FALLBACK_ENABLED", "API_PORT"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.APIPort != "3000" {
		t.Errorf("APIPort = %q, want 3000", cfg.APIPort)
	}
	if cfg.GeminiTimeout != 60*time.Second {
		t.Errorf("GeminiTimeout = %v, want 60s", cfg.GeminiTimeout)
	}
	if !cfg.AIFallbackEnabled {
		t.Error("AIFallbackEnabled should default to true")
	}
	if cfg.AIConfigured() {
		t.Error("AIConfigured should be false without a key")
	}
}

func TestLoadViteKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("VITE_GEMINI_API_KEY", "vite-key")

	if got := Load().GeminiAPIKey; got != "vite-key" {
		t.Errorf("GeminiAPIKey = %q, want vite-key", got)
	}
}

func TestAIConfigured(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"", false},
		{"   ", false},
		{"your-api-key-here", false},
		{"AIza-real", true},
	}

	for _, tt := range tests {
		cfg := &Config{GeminiAPIKey: tt.key}
		if got := cfg.AIConfigured(); got != tt.expected {
			t.Errorf("AIConfigured(%q) = %v, want %v", tt.key, got, tt.expected)
		}
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("X_BOOL", "false")
	if getEnvBool("X_BOOL", true) {
		t.Error("expected false")
	}
	t.Setenv("X_BOOL", "nope")
	if !getEnvBool("X_BOOL", true) {
		t.Error("invalid value should use fallback")
	}
}
