// Package config loads service configuration from YAML, .env files and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-healthpdf/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config exceeds maximum size")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxConfigSize limits config input to prevent memory exhaustion.
const MaxConfigSize = 1 << 20

// Field limits.
const (
	MaxURLLength     = 2048 // Browser limit
	MaxPathLength    = 4096 // PATH_MAX on Linux
	MaxBucketLength  = 63   // S3 bucket naming rules
	MaxOrigins       = 50
	MaxConcurrency   = 64
	MaxRenderTimeout = 10 * time.Minute
	MaxURLExpiry     = 7 * 24 * time.Hour // S3 presign ceiling
)

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Render  RenderConfig  `yaml:"render"`
	Browser BrowserConfig `yaml:"browser"`
	Storage StorageConfig `yaml:"storage"`
	Assets  AssetsConfig  `yaml:"assets"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig defines HTTP listener options.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`           // ":3000"
	BaseURL        string   `yaml:"baseUrl"`        // Public origin for template assets
	AllowedOrigins []string `yaml:"allowedOrigins"` // CORS allow-list, "*" allows any
}

// RenderConfig defines per-render options.
type RenderConfig struct {
	Timeout     string `yaml:"timeout"`     // Go duration, default "30s"
	Concurrency int    `yaml:"concurrency"` // 0 = auto
	Schema      string `yaml:"schema"`      // "grouped" (default) or "flat"
}

// BrowserConfig defines browser discovery options.
type BrowserConfig struct {
	Bin              string   `yaml:"bin"`              // Explicit executable
	AllowDownload    bool     `yaml:"allowDownload"`    // Fetch a managed browser when none is found
	BundleDirs       []string `yaml:"bundleDirs"`       // Serverless bundle candidates
	BundleExecutable string   `yaml:"bundleExecutable"` // Path the bundle unpacks to
}

// StorageConfig defines where generated PDFs go.
type StorageConfig struct {
	UseLocal  bool   `yaml:"useLocal"`
	Dir       string `yaml:"dir"`       // Local store directory
	Bucket    string `yaml:"bucket"`    // Empty = local store
	Region    string `yaml:"region"`    // Empty = SDK default chain
	Prefix    string `yaml:"prefix"`    // Object key prefix
	URLExpiry string `yaml:"urlExpiry"` // Presigned URL lifetime, default "1h"
}

// AssetsConfig defines template and font locations.
type AssetsConfig struct {
	BasePath   string `yaml:"basePath"`   // Empty = embedded templates
	FontPath   string `yaml:"fontPath"`   // Substituted for FONT_PATH
	Stylesheet string `yaml:"stylesheet"` // Extra CSS file appended to every report
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":3000"},
		Render: RenderConfig{Timeout: "30s", Schema: "grouped"},
		Storage: StorageConfig{
			Dir:       "pdfs",
			URLExpiry: "1h",
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Validate checks ranges, enumerations and field lengths.
// Called automatically by Parse, but available for consumers who construct
// or override Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.baseUrl", c.Server.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Server.BaseURL != "" && !fileutil.IsURL(c.Server.BaseURL) {
		return fmt.Errorf("%w: server.baseUrl %q must start with http:// or https://", ErrInvalidValue, c.Server.BaseURL)
	}
	if len(c.Server.AllowedOrigins) > MaxOrigins {
		return fmt.Errorf("%w: server.allowedOrigins has %d entries (max %d)", ErrInvalidValue, len(c.Server.AllowedOrigins), MaxOrigins)
	}
	for i, o := range c.Server.AllowedOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.allowedOrigins[%d]", i), o, MaxURLLength); err != nil {
			return err
		}
	}

	if _, err := c.Render.TimeoutDuration(); err != nil {
		return err
	}
	if c.Render.Concurrency < 0 || c.Render.Concurrency > MaxConcurrency {
		return fmt.Errorf("%w: render.concurrency must be between 0 and %d, got %d", ErrInvalidValue, MaxConcurrency, c.Render.Concurrency)
	}
	switch c.Render.Schema {
	case "", "grouped", "flat":
	default:
		return fmt.Errorf("%w: render.schema %q (must be grouped or flat)", ErrInvalidValue, c.Render.Schema)
	}

	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser.bundleExecutable", c.Browser.BundleExecutable, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("storage.bucket", c.Storage.Bucket, MaxBucketLength); err != nil {
		return err
	}
	if err := validateFieldLength("storage.dir", c.Storage.Dir, MaxPathLength); err != nil {
		return err
	}
	if _, err := c.Storage.URLExpiryDuration(); err != nil {
		return err
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.fontPath", c.Assets.FontPath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.stylesheet", c.Assets.Stylesheet, MaxPathLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: log.format %q (must be json or console)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// TimeoutDuration parses Timeout. Empty means 30s.
func (r RenderConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration("render.timeout", r.Timeout, 30*time.Second, MaxRenderTimeout)
}

// URLExpiryDuration parses URLExpiry. Empty means one hour.
func (s StorageConfig) URLExpiryDuration() (time.Duration, error) {
	return parseDuration("storage.urlExpiry", s.URLExpiry, time.Hour, MaxURLExpiry)
}

func parseDuration(field, value string, def, maxDur time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d <= 0 || d > maxDur {
		return 0, fmt.Errorf("%w: %s must be between 0 and %s, got %s", ErrInvalidValue, field, maxDur, d)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name on top of
// DefaultConfig. If nameOrPath contains a path separator, it's treated as a
// file path. Otherwise, it's searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !strings.ContainsAny(nameOrPath, "/\\") {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML strictly on top of DefaultConfig and validates the
// result. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxConfigSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxConfigSize)
	}

	cfg := DefaultConfig()
	if len(data) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths returns the locations resolveConfigPath tries for name.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "healthpdf", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name: current directory
// first, then ~/.config/healthpdf/, each with .yaml then .yml.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
