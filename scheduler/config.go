package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/devskill-org/sunrise/sun"
	"github.com/joho/godotenv"
)

// Known reference provider names
const (
	ReferenceSunCalc       = "suncalc"
	ReferenceAstral        = "astral"
	ReferenceSunriseSunset = "sunrisesunset"
	ReferenceGoSunrise     = "gosunrise"
	ReferenceMET           = "met"
)

// Config represents the configuration for the sun scheduler
type Config struct {
	// Observer
	Latitude  float64 `json:"latitude"`  // Degrees, north positive
	Longitude float64 `json:"longitude"` // Degrees, east positive
	Elevation float64 `json:"elevation"` // Metres above the horizon reference, non-negative

	// Timezone used for display and for picking "today"
	Location string `json:"location"`

	// Scheduler settings
	RecalcInterval         time.Duration `json:"recalc_interval"`          // How often to recompute today's events
	ReferenceCheckInterval time.Duration `json:"reference_check_interval"` // How often to compare against references (0 = disabled)
	References             []string      `json:"references"`               // Reference providers to compare against
	DryRun                 bool          `json:"dry_run"`                  // Compute without persisting

	// API settings
	UserAgent  string        `json:"user_agent"`  // User agent for the MET API client
	APITimeout time.Duration `json:"api_timeout"` // Timeout for reference checks

	// Logging settings
	LogLevel string `json:"log_level"` // "debug" enables the calculation trace, "info" is the default

	// Advanced settings
	HTTPPort           int    `json:"http_port"`            // Port for the web server (0 = disabled)
	PostgresConnString string `json:"postgres_conn_string"` // PostgreSQL connection string
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Latitude:               43.268399, // Hamilton, Ontario
		Longitude:              -79.774549,
		Elevation:              74,
		Location:               "America/Toronto",
		RecalcInterval:         1 * time.Hour,
		ReferenceCheckInterval: 24 * time.Hour,
		References:             []string{ReferenceSunCalc, ReferenceAstral, ReferenceSunriseSunset},
		DryRun:                 false,
		UserAgent:              "sunrise/1.0 (username@example.com)",
		APITimeout:             30 * time.Second,
		LogLevel:               "info",
		HTTPPort:               0,
		PostgresConnString:     "",
	}
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	config := DefaultConfig()

	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config JSON: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a JSON file
func (c *Config) SaveConfig(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	return c.SaveConfigToWriter(file)
}

// SaveConfigToWriter saves the configuration to an io.Writer
func (c *Config) SaveConfigToWriter(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config JSON: %w", err)
	}

	return nil
}

// ApplyEnv loads the given .env files (".env" when none are given) and
// overrides the configuration from SUNRISE_* environment variables.
// Missing .env files are not an error.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	floats := map[string]*float64{
		"SUNRISE_LATITUDE":  &c.Latitude,
		"SUNRISE_LONGITUDE": &c.Longitude,
		"SUNRISE_ELEVATION": &c.Elevation,
	}
	for name, field := range floats {
		if value, ok := os.LookupEnv(name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", name, err)
			}
			*field = f
		}
	}

	durations := map[string]*time.Duration{
		"SUNRISE_RECALC_INTERVAL":          &c.RecalcInterval,
		"SUNRISE_REFERENCE_CHECK_INTERVAL": &c.ReferenceCheckInterval,
		"SUNRISE_API_TIMEOUT":              &c.APITimeout,
	}
	for name, field := range durations {
		if value, ok := os.LookupEnv(name); ok {
			d, err := time.ParseDuration(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("invalid %s: %w", name, err)
			}
			*field = d
		}
	}

	strs := map[string]*string{
		"SUNRISE_LOCATION":      &c.Location,
		"SUNRISE_USER_AGENT":    &c.UserAgent,
		"SUNRISE_LOG_LEVEL":     &c.LogLevel,
		"SUNRISE_POSTGRES_CONN": &c.PostgresConnString,
	}
	for name, field := range strs {
		if value, ok := os.LookupEnv(name); ok {
			*field = value
		}
	}

	if value, ok := os.LookupEnv("SUNRISE_HTTP_PORT"); ok {
		port, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid SUNRISE_HTTP_PORT: %w", err)
		}
		c.HTTPPort = port
	}

	if value, ok := os.LookupEnv("SUNRISE_DRY_RUN"); ok {
		dryRun, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid SUNRISE_DRY_RUN: %w", err)
		}
		c.DryRun = dryRun
	}

	if value, ok := os.LookupEnv("SUNRISE_REFERENCES"); ok {
		c.References = nil
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.References = append(c.References, name)
			}
		}
	}

	return nil
}

// Observer returns the configured observer
func (c *Config) Observer() sun.Observer {
	return sun.Observer{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Elevation: c.Elevation,
	}
}

// TimeLocation returns the configured timezone, UTC when unset
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", c.Location, err)
	}
	return loc, nil
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.Observer().Validate(); err != nil {
		return err
	}

	// Validate longitude
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got: %f", c.Longitude)
	}

	if _, err := c.TimeLocation(); err != nil {
		return err
	}

	if c.RecalcInterval <= 0 {
		return fmt.Errorf("recalc_interval must be greater than 0, got: %s", c.RecalcInterval)
	}

	if c.ReferenceCheckInterval < 0 {
		return fmt.Errorf("reference_check_interval must not be negative, got: %s", c.ReferenceCheckInterval)
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be greater than 0, got: %s", c.APITimeout)
	}

	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port must be between 0 and 65535, got: %d", c.HTTPPort)
	}

	// Validate references
	validReferences := map[string]bool{
		ReferenceSunCalc:       true,
		ReferenceAstral:        true,
		ReferenceSunriseSunset: true,
		ReferenceGoSunrise:     true,
		ReferenceMET:           true,
	}
	for _, name := range c.References {
		if !validReferences[name] {
			return fmt.Errorf("unknown reference %q, must be one of: suncalc, astral, sunrisesunset, met", name)
		}
		if name == ReferenceMET && c.UserAgent == "" {
			return fmt.Errorf("user_agent cannot be empty when the met reference is enabled")
		}
	}

	// Validate log level
	if c.LogLevel != "debug" && c.LogLevel != "info" {
		return fmt.Errorf("invalid log_level: %s, must be debug or info", c.LogLevel)
	}

	return nil
}

// MarshalJSON implements custom JSON marshaling to handle durations
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		RecalcInterval         string `json:"recalc_interval"`
		ReferenceCheckInterval string `json:"reference_check_interval"`
		APITimeout             string `json:"api_timeout"`
	}{
		Alias:                  (*Alias)(c),
		RecalcInterval:         c.RecalcInterval.String(),
		ReferenceCheckInterval: c.ReferenceCheckInterval.String(),
		APITimeout:             c.APITimeout.String(),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling to handle durations
func (c *Config) UnmarshalJSON(data []byte) error {
	type Alias Config
	aux := &struct {
		*Alias
		RecalcInterval         string `json:"recalc_interval"`
		ReferenceCheckInterval string `json:"reference_check_interval"`
		APITimeout             string `json:"api_timeout"`
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if aux.RecalcInterval != "" {
		if c.RecalcInterval, err = time.ParseDuration(aux.RecalcInterval); err != nil {
			return fmt.Errorf("invalid recalc_interval: %w", err)
		}
	}

	if aux.ReferenceCheckInterval != "" {
		if c.ReferenceCheckInterval, err = time.ParseDuration(aux.ReferenceCheckInterval); err != nil {
			return fmt.Errorf("invalid reference_check_interval: %w", err)
		}
	}

	if aux.APITimeout != "" {
		if c.APITimeout, err = time.ParseDuration(aux.APITimeout); err != nil {
			return fmt.Errorf("invalid api_timeout: %w", err)
		}
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Debug reports whether debug logging is enabled
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}
