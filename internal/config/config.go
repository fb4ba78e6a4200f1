package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/pitchview/internal/units"
)

// DefaultConfigPath is the path to the canonical defaults file. It is optional:
// every field has a built-in fallback in its Get* accessor.
const DefaultConfigPath = "config/pitchview.defaults.json"

// Config represents the root configuration for the analysis service.
// The schema matches the /api/config endpoint so the same JSON can be used
// for startup configuration and for inspecting the running service.
type Config struct {
	// Statistics feed
	APIBaseURL            *string `json:"api_base_url,omitempty"`
	RequestTimeout        *string `json:"request_timeout,omitempty"` // duration string like "20s"
	MaxConcurrentRequests *int    `json:"max_concurrent_requests,omitempty"`

	// Trajectory reconstruction
	ArcHeightFt         *float64 `json:"arc_height_ft,omitempty"`
	MinArcHeightFt      *float64 `json:"min_arc_height_ft,omitempty"`
	MinArcLengthFt      *float64 `json:"min_arc_length_ft,omitempty"`
	DefaultZoneTopFt    *float64 `json:"default_zone_top_ft,omitempty"`
	DefaultZoneBottomFt *float64 `json:"default_zone_bottom_ft,omitempty"`

	// Presentation
	SpeedUnits *string `json:"speed_units,omitempty"`

	// Scene stream
	StreamClientBuffer *int `json:"stream_client_buffer,omitempty"`
	StreamMaxClients   *int `json:"stream_max_clients,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyConfig returns a Config with all fields set to nil.
func EmptyConfig() *Config {
	return &Config{}
}

// DefaultConfig returns a Config with every field populated from the built-in
// defaults. It is what /api/config reports when no file was loaded.
func DefaultConfig() *Config {
	return EmptyConfig().Effective()
}

// Effective returns a copy of c with every omitted field filled in from its
// default, i.e. the values the service actually runs with.
func (c *Config) Effective() *Config {
	return &Config{
		APIBaseURL:            ptrString(c.GetAPIBaseURL()),
		RequestTimeout:        ptrString(c.GetRequestTimeout().String()),
		MaxConcurrentRequests: ptrInt(c.GetMaxConcurrentRequests()),
		ArcHeightFt:           ptrFloat64(c.GetArcHeightFt()),
		MinArcHeightFt:        ptrFloat64(c.GetMinArcHeightFt()),
		MinArcLengthFt:        ptrFloat64(c.GetMinArcLengthFt()),
		DefaultZoneTopFt:      ptrFloat64(c.GetDefaultZoneTopFt()),
		DefaultZoneBottomFt:   ptrFloat64(c.GetDefaultZoneBottomFt()),
		SpeedUnits:            ptrString(c.GetSpeedUnits()),
		StreamClientBuffer:    ptrInt(c.GetStreamClientBuffer()),
		StreamMaxClients:      ptrInt(c.GetStreamMaxClients()),
	}
}

// LoadConfig loads a Config from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to an empty config
// (all defaults) when it does not. Any other error is returned.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return EmptyConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return EmptyConfig(), nil
	}
	return LoadConfig(path)
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.APIBaseURL != nil {
		u, err := url.Parse(*c.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("api_base_url must be an absolute URL, got %q", *c.APIBaseURL)
		}
	}

	if c.RequestTimeout != nil && *c.RequestTimeout != "" {
		d, err := time.ParseDuration(*c.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout '%s': %w", *c.RequestTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("request_timeout must be positive, got %s", d)
		}
	}

	if c.MaxConcurrentRequests != nil && *c.MaxConcurrentRequests < 0 {
		return fmt.Errorf("max_concurrent_requests must be non-negative, got %d", *c.MaxConcurrentRequests)
	}

	if c.ArcHeightFt != nil && *c.ArcHeightFt < 0 {
		return fmt.Errorf("arc_height_ft must be non-negative, got %f", *c.ArcHeightFt)
	}
	if c.MinArcHeightFt != nil && *c.MinArcHeightFt <= 0 {
		return fmt.Errorf("min_arc_height_ft must be positive, got %f", *c.MinArcHeightFt)
	}
	if c.MinArcLengthFt != nil && *c.MinArcLengthFt <= 0 {
		return fmt.Errorf("min_arc_length_ft must be positive, got %f", *c.MinArcLengthFt)
	}

	if top, bottom := c.GetDefaultZoneTopFt(), c.GetDefaultZoneBottomFt(); top <= bottom {
		return fmt.Errorf("default_zone_top_ft (%f) must be above default_zone_bottom_ft (%f)", top, bottom)
	}

	if c.SpeedUnits != nil && !units.IsValid(*c.SpeedUnits) {
		return fmt.Errorf("speed_units must be one of %s, got %q", units.GetValidUnitsString(), *c.SpeedUnits)
	}

	if c.StreamClientBuffer != nil && *c.StreamClientBuffer < 1 {
		return fmt.Errorf("stream_client_buffer must be at least 1, got %d", *c.StreamClientBuffer)
	}
	if c.StreamMaxClients != nil && *c.StreamMaxClients < 1 {
		return fmt.Errorf("stream_max_clients must be at least 1, got %d", *c.StreamMaxClients)
	}

	return nil
}

// GetAPIBaseURL returns the statistics feed base URL or the default.
func (c *Config) GetAPIBaseURL() string {
	if c.APIBaseURL == nil || *c.APIBaseURL == "" {
		return "http://localhost:8000"
	}
	return *c.APIBaseURL
}

// GetRequestTimeout parses and returns the RequestTimeout as a time.Duration.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.RequestTimeout == nil || *c.RequestTimeout == "" {
		return 30 * time.Second // default
	}
	d, err := time.ParseDuration(*c.RequestTimeout)
	if err != nil {
		return 30 * time.Second // default on parse error
	}
	return d
}

// GetMaxConcurrentRequests returns the fan-out limit. Zero means unlimited.
func (c *Config) GetMaxConcurrentRequests() int {
	if c.MaxConcurrentRequests == nil {
		return 0
	}
	return *c.MaxConcurrentRequests
}

// GetArcHeightFt returns the arc_height_ft value or the default.
func (c *Config) GetArcHeightFt() float64 {
	if c.ArcHeightFt == nil {
		return 1.5
	}
	return *c.ArcHeightFt
}

// GetMinArcHeightFt returns the min_arc_height_ft value or the default.
func (c *Config) GetMinArcHeightFt() float64 {
	if c.MinArcHeightFt == nil {
		return 0.25
	}
	return *c.MinArcHeightFt
}

// GetMinArcLengthFt returns the min_arc_length_ft value or the default.
func (c *Config) GetMinArcLengthFt() float64 {
	if c.MinArcLengthFt == nil {
		return 0.1
	}
	return *c.MinArcLengthFt
}

// GetDefaultZoneTopFt returns the default_zone_top_ft value or the default.
func (c *Config) GetDefaultZoneTopFt() float64 {
	if c.DefaultZoneTopFt == nil {
		return 3.5
	}
	return *c.DefaultZoneTopFt
}

// GetDefaultZoneBottomFt returns the default_zone_bottom_ft value or the default.
func (c *Config) GetDefaultZoneBottomFt() float64 {
	if c.DefaultZoneBottomFt == nil {
		return 1.5
	}
	return *c.DefaultZoneBottomFt
}

// GetSpeedUnits returns the speed_units value or the default.
func (c *Config) GetSpeedUnits() string {
	if c.SpeedUnits == nil || *c.SpeedUnits == "" {
		return units.MPH
	}
	return *c.SpeedUnits
}

// GetStreamClientBuffer returns the per-subscriber scene buffer size.
func (c *Config) GetStreamClientBuffer() int {
	if c.StreamClientBuffer == nil {
		return 4
	}
	return *c.StreamClientBuffer
}

// GetStreamMaxClients returns the maximum number of scene stream subscribers.
func (c *Config) GetStreamMaxClients() int {
	if c.StreamMaxClients == nil {
		return 8
	}
	return *c.StreamMaxClients
}
