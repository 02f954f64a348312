package scheduler

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devskill-org/sunrise/sun"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}

	if config.Latitude != 43.268399 || config.Longitude != -79.774549 || config.Elevation != 74 {
		t.Errorf("Unexpected default observer %+v", config.Observer())
	}
}

func TestLoadConfigFromReader(t *testing.T) {
	input := `{
		"latitude": 59.9139,
		"longitude": 10.7522,
		"elevation": 23,
		"location": "Europe/Oslo",
		"recalc_interval": "30m",
		"reference_check_interval": "6h",
		"references": ["suncalc", "met"],
		"api_timeout": "10s",
		"http_port": 8080,
		"log_level": "debug"
	}`

	config, err := LoadConfigFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadConfigFromReader returned error: %v", err)
	}

	if config.Latitude != 59.9139 || config.Longitude != 10.7522 || config.Elevation != 23 {
		t.Errorf("Unexpected observer %+v", config.Observer())
	}
	if config.RecalcInterval != 30*time.Minute {
		t.Errorf("Expected recalc_interval 30m, got %v", config.RecalcInterval)
	}
	if config.ReferenceCheckInterval != 6*time.Hour {
		t.Errorf("Expected reference_check_interval 6h, got %v", config.ReferenceCheckInterval)
	}
	if config.APITimeout != 10*time.Second {
		t.Errorf("Expected api_timeout 10s, got %v", config.APITimeout)
	}
	if len(config.References) != 2 || config.References[1] != ReferenceMET {
		t.Errorf("Unexpected references %v", config.References)
	}
	if !config.Debug() {
		t.Error("Expected debug logging")
	}
	// Defaults are kept for missing fields
	if config.UserAgent != DefaultConfig().UserAgent {
		t.Errorf("Expected default user agent, got %q", config.UserAgent)
	}
}

func TestLoadConfigFromReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed json", `{"latitude": `},
		{"bad duration", `{"recalc_interval": "soon"}`},
		{"negative elevation", `{"elevation": -5}`},
		{"latitude out of range", `{"latitude": 95}`},
		{"longitude out of range", `{"longitude": 200}`},
		{"unknown reference", `{"references": ["sundial"]}`},
		{"unknown location", `{"location": "Mars/Olympus"}`},
		{"zero recalc interval", `{"recalc_interval": "0s"}`},
		{"bad log level", `{"log_level": "verbose"}`},
		{"warn log level", `{"log_level": "warn"}`},
		{"error log level", `{"log_level": "error"}`},
		{"bad port", `{"http_port": 70000}`},
		{"met without user agent", `{"references": ["met"], "user_agent": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfigFromReader(strings.NewReader(tt.input)); err == nil {
				t.Errorf("Expected error for %s", tt.input)
			}
		})
	}
}

func TestValidateNegativeElevation(t *testing.T) {
	config := DefaultConfig()
	config.Elevation = -1

	err := config.Validate()
	if !errors.Is(err, sun.ErrInvalidElevation) {
		t.Errorf("Expected ErrInvalidElevation, got %v", err)
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
	}{
		{"debug", true},
		{"info", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			config := DefaultConfig()
			config.LogLevel = tt.level
			if err := config.Validate(); err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
			if config.Debug() != tt.debug {
				t.Errorf("Expected Debug() = %v for %q", tt.debug, tt.level)
			}
		})
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	config := DefaultConfig()
	config.RecalcInterval = 90 * time.Minute
	config.References = []string{ReferenceAstral}

	var buf bytes.Buffer
	if err := config.SaveConfigToWriter(&buf); err != nil {
		t.Fatalf("SaveConfigToWriter returned error: %v", err)
	}
	if !strings.Contains(buf.String(), `"recalc_interval": "1h30m0s"`) {
		t.Errorf("Expected duration string in output, got %s", buf.String())
	}

	loaded, err := LoadConfigFromReader(&buf)
	if err != nil {
		t.Fatalf("LoadConfigFromReader returned error: %v", err)
	}
	if loaded.RecalcInterval != config.RecalcInterval {
		t.Errorf("Expected %v, got %v", config.RecalcInterval, loaded.RecalcInterval)
	}
	if len(loaded.References) != 1 || loaded.References[0] != ReferenceAstral {
		t.Errorf("Unexpected references %v", loaded.References)
	}

	path := filepath.Join(t.TempDir(), "config.json")
	if err := config.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig returned error: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Errorf("LoadConfig returned error: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "SUNRISE_LATITUDE=69.6492\nSUNRISE_LONGITUDE=18.9553\nSUNRISE_LOCATION=Europe/Oslo\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	// godotenv does not override variables that are already set
	t.Setenv("SUNRISE_LATITUDE", "")
	os.Unsetenv("SUNRISE_LATITUDE")
	t.Setenv("SUNRISE_LONGITUDE", "")
	os.Unsetenv("SUNRISE_LONGITUDE")
	t.Setenv("SUNRISE_LOCATION", "")
	os.Unsetenv("SUNRISE_LOCATION")

	t.Setenv("SUNRISE_ELEVATION", "10")
	t.Setenv("SUNRISE_RECALC_INTERVAL", "15m")
	t.Setenv("SUNRISE_HTTP_PORT", "9090")
	t.Setenv("SUNRISE_DRY_RUN", "true")
	t.Setenv("SUNRISE_REFERENCES", "suncalc, sunrisesunset")

	config := DefaultConfig()
	if err := config.ApplyEnv(envFile); err != nil {
		t.Fatalf("ApplyEnv returned error: %v", err)
	}

	if config.Latitude != 69.6492 || config.Longitude != 18.9553 {
		t.Errorf("Expected observer from env file, got %+v", config.Observer())
	}
	if config.Location != "Europe/Oslo" {
		t.Errorf("Expected location from env file, got %q", config.Location)
	}
	if config.Elevation != 10 {
		t.Errorf("Expected elevation 10, got %v", config.Elevation)
	}
	if config.RecalcInterval != 15*time.Minute {
		t.Errorf("Expected recalc interval 15m, got %v", config.RecalcInterval)
	}
	if config.HTTPPort != 9090 {
		t.Errorf("Expected port 9090, got %d", config.HTTPPort)
	}
	if !config.DryRun {
		t.Error("Expected dry run")
	}
	if len(config.References) != 2 || config.References[1] != ReferenceSunriseSunset {
		t.Errorf("Unexpected references %v", config.References)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Config from env should be valid: %v", err)
	}
}

func TestApplyEnvMissingFile(t *testing.T) {
	config := DefaultConfig()
	if err := config.ApplyEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Missing env file should be ignored, got %v", err)
	}
}

func TestApplyEnvInvalidValue(t *testing.T) {
	t.Setenv("SUNRISE_ELEVATION", "high")

	config := DefaultConfig()
	if err := config.ApplyEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Expected error for invalid elevation")
	}
}

func TestTimeLocation(t *testing.T) {
	config := DefaultConfig()
	config.Location = ""

	loc, err := config.TimeLocation()
	if err != nil || loc != time.UTC {
		t.Errorf("Expected UTC for empty location, got %v, %v", loc, err)
	}
}
