package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"env value wins", "NEUTRALEDU_TEST_STR", "postgres://db:5432", "fallback", "postgres://db:5432"},
		{"falls back when unset", "NEUTRALEDU_TEST_MISSING", "", "http://localhost:5173", "http://localhost:5173"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			if got := getEnvOrDefault(tc.key, tc.defaultVal); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses quota override", "NEUTRALEDU_TEST_INT", "25", 10, 25},
		{"default when unset", "NEUTRALEDU_TEST_INT_MISSING", "", 300, 300},
		{"default for garbage", "NEUTRALEDU_TEST_INT_BAD", "five", 10, 10},
		{"parses zero", "NEUTRALEDU_TEST_INT_ZERO", "0", 10, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			if got := getEnvAsIntOrDefault(tc.key, tc.defaultVal); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NEUTRALEDU_TEST_REQUIRED_MISSING")
	mustGetEnv("NEUTRALEDU_TEST_REQUIRED_MISSING")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	t.Setenv("NEUTRALEDU_TEST_REQUIRED", "a-very-long-jwt-secret")

	if got := mustGetEnv("NEUTRALEDU_TEST_REQUIRED"); got != "a-very-long-jwt-secret" {
		t.Errorf("Expected the set value, got %q", got)
	}
}

func TestQuotaForPlan(t *testing.T) {
	cfg := &Config{QuotaFree: 10, QuotaPremium: 50, QuotaPro: 200}

	tests := []struct {
		plan     string
		expected int
	}{
		{"free", 10},
		{"premium", 50},
		{"pro", 200},
		{"unknown", 10},
		{"", 10},
	}

	for _, tc := range tests {
		if got := cfg.QuotaForPlan(tc.plan); got != tc.expected {
			t.Errorf("QuotaForPlan(%q) = %d, want %d", tc.plan, got, tc.expected)
		}
	}
}
