// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for journey360.
//
// Configuration sources (later sources win):
//   - Built-in defaults
//   - ~/.journey360/config.toml
//   - a .env file in the working directory (never overrides the real environment)
//   - JOURNEY360_* environment variables (VITE_BACKEND_URL is honoured too)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/journey360-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete journey360 configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend trip/itinerary API
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Identity provider (Firebase Identity Toolkit)
	Identity IdentityConfig `toml:"identity" json:"identity"`

	// Generative AI chat (OpenRouter)
	AI AIConfig `toml:"ai" json:"ai"`

	UI UIConfig `toml:"ui" json:"ui"`

	Log LogConfig `toml:"log" json:"log"`
}

// BackendConfig configures the trip API client.
type BackendConfig struct {
	// URL is the backend base URL, e.g. http://localhost:8001
	URL string `toml:"url" json:"url"`
	// TimeoutSecs bounds a single request. Itinerary generation is slow.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerSecond is the client-side rate limit (0 disables it)
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	// Burst is the limiter burst size
	Burst int `toml:"burst" json:"burst"`
	// MaxResponseMB caps response bodies
	MaxResponseMB int `toml:"max_response_mb" json:"max_response_mb"`
}

// IdentityConfig configures sign-in.
type IdentityConfig struct {
	// APIKey is the Firebase web API key
	APIKey string `toml:"api_key" json:"api_key"`
	// AuthURL is the Identity Toolkit base URL
	AuthURL string `toml:"auth_url" json:"auth_url"`
	// TokenURL is the secure-token refresh endpoint
	TokenURL string `toml:"token_url" json:"token_url"`
}

// AIConfig configures the chat assistant.
type AIConfig struct {
	// OpenRouterKey enables direct model access. Empty routes chat through the backend.
	OpenRouterKey string `toml:"openrouter_key" json:"openrouter_key"`
	Model         string `toml:"model" json:"model"`
	BaseURL       string `toml:"base_url" json:"base_url"`
	TimeoutSecs   int    `toml:"timeout_secs" json:"timeout_secs"`
}

// UIConfig contains UI configuration. These fields hot-reload.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode hides descriptions in the timeline
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// SafetyLocation seeds the safety search box
	SafetyLocation string `toml:"safety_location" json:"safety_location"`
	// TileURL is the {z}/{x}/{y} template shown on the map panel
	TileURL string `toml:"tile_url" json:"tile_url"`
	// Markdown renders assistant replies with glamour
	Markdown bool `toml:"markdown" json:"markdown"`
}

// LogConfig controls the slog logger.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `toml:"level" json:"level"`
	// File is the log destination. "-" discards logs.
	File string `toml:"file" json:"file"`
	// JSON selects the JSON handler instead of text
	JSON bool `toml:"json" json:"json"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// DefaultBackendURL matches the development backend.
const DefaultBackendURL = "http://localhost:8001"

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			URL:               DefaultBackendURL,
			TimeoutSecs:       120,
			RequestsPerSecond: 5,
			Burst:             5,
			MaxResponseMB:     8,
		},

		Identity: IdentityConfig{
			AuthURL:  "https://identitytoolkit.googleapis.com/v1",
			TokenURL: "https://securetoken.googleapis.com/v1/token",
		},

		AI: AIConfig{
			Model:       "google/gemini-2.0-flash-001",
			BaseURL:     "https://openrouter.ai/api/v1",
			TimeoutSecs: 60,
		},

		UI: UIConfig{
			Theme:          "dark",
			SafetyLocation: "Paris, France",
			TileURL:        "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			Markdown:       true,
		},

		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the journey360 configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".journey360"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns the log file used when log.file is unset.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journey360.log"), nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files hold API keys and should be 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default TOML path, the local .env file
// and the environment. A missing config file is not an error.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		cfg := Default()
		cfg.finish()
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config: %w", err)
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg.finish()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs into the process environment.
// Variables already set are left alone. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

func (c *Config) finish() {
	c.ApplyEnvOverrides()
	fillDefaults(c)
	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.Backend.URL == "" {
		cfg.Backend.URL = defaults.Backend.URL
	}
	if cfg.Backend.TimeoutSecs == 0 {
		cfg.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if cfg.Backend.Burst == 0 {
		cfg.Backend.Burst = defaults.Backend.Burst
	}
	if cfg.Backend.MaxResponseMB == 0 {
		cfg.Backend.MaxResponseMB = defaults.Backend.MaxResponseMB
	}

	if cfg.Identity.AuthURL == "" {
		cfg.Identity.AuthURL = defaults.Identity.AuthURL
	}
	if cfg.Identity.TokenURL == "" {
		cfg.Identity.TokenURL = defaults.Identity.TokenURL
	}

	if cfg.AI.Model == "" {
		cfg.AI.Model = defaults.AI.Model
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = defaults.AI.BaseURL
	}
	if cfg.AI.TimeoutSecs == 0 {
		cfg.AI.TimeoutSecs = defaults.AI.TimeoutSecs
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.SafetyLocation == "" {
		cfg.UI.SafetyLocation = defaults.UI.SafetyLocation
	}
	if cfg.UI.TileURL == "" {
		cfg.UI.TileURL = defaults.UI.TileURL
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration atomically.
// SECURITY: Config files are written 0600 (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# journey360 configuration file\n")
	b.WriteString("# Generated by journey360 - edit with care\n\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	checkURL := func(field, raw string) {
		if raw == "" {
			return
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", raw),
			})
		}
	}

	checkURL("backend.url", c.Backend.URL)
	checkURL("identity.auth_url", c.Identity.AuthURL)
	checkURL("identity.token_url", c.Identity.TokenURL)
	checkURL("ai.base_url", c.AI.BaseURL)

	if c.Backend.TimeoutSecs < 0 || c.Backend.TimeoutSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: fmt.Sprintf("must be between 0 and 3600, got %d", c.Backend.TimeoutSecs),
		})
	}
	if c.Backend.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.requests_per_second",
			Message: "must not be negative",
		})
	}
	if c.Backend.Burst < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.burst",
			Message: "must not be negative",
		})
	}
	if c.Backend.MaxResponseMB < 0 || c.Backend.MaxResponseMB > 256 {
		errs = append(errs, ValidationError{
			Field:   "backend.max_response_mb",
			Message: fmt.Sprintf("must be between 0 and 256, got %d", c.Backend.MaxResponseMB),
		})
	}
	if c.AI.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "ai.timeout_secs",
			Message: "must not be negative",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}
	if t := c.UI.TileURL; t != "" && !(strings.Contains(t, "{z}") && strings.Contains(t, "{x}") && strings.Contains(t, "{y}")) {
		errs = append(errs, ValidationError{
			Field:   "ui.tile_url",
			Message: "must contain {z}, {x} and {y} placeholders",
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - JOURNEY360_BACKEND_URL: overrides backend.url
//   - VITE_BACKEND_URL: same, read when JOURNEY360_BACKEND_URL is unset
//   - JOURNEY360_FIREBASE_API_KEY: overrides identity.api_key
//   - JOURNEY360_OPENROUTER_KEY: overrides ai.openrouter_key
//   - JOURNEY360_MODEL: overrides ai.model
//   - JOURNEY360_LOG_LEVEL: overrides log.level
//   - JOURNEY360_LOG_FILE: overrides log.file
func (c *Config) ApplyEnvOverrides() {
	if u := util.FirstNonEmpty(os.Getenv("JOURNEY360_BACKEND_URL"), os.Getenv("VITE_BACKEND_URL")); u != "" {
		c.Backend.URL = u
	}

	if key := os.Getenv("JOURNEY360_FIREBASE_API_KEY"); key != "" {
		c.Identity.APIKey = key
	}

	if key := os.Getenv("JOURNEY360_OPENROUTER_KEY"); key != "" {
		c.AI.OpenRouterKey = key
	}

	if model := os.Getenv("JOURNEY360_MODEL"); model != "" {
		c.AI.Model = model
	}

	if level := os.Getenv("JOURNEY360_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if file := os.Getenv("JOURNEY360_LOG_FILE"); file != "" {
		c.Log.File = file
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a value by its TOML key path, e.g. "backend.url".
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a value by its TOML key path, converting strings as needed.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds a struct field by its toml tag, accepting kebab-case.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	name = strings.ReplaceAll(strings.ToLower(name), "-", "_")
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if tomlName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tomlName(f reflect.StructField) string {
	tag := f.Tag.Get("toml")
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	return tag
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strings.ToLower(strVal))
			if err != nil {
				boolVal = strings.EqualFold(strVal, "yes") || strings.EqualFold(strVal, "on")
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	var keys []string
	var walk func(prefix string, t reflect.Type)
	walk = func(prefix string, t reflect.Type) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := tomlName(f)
			if prefix != "" {
				name = prefix + "." + name
			}
			if f.Type.Kind() == reflect.Struct {
				walk(name, f.Type)
				continue
			}
			keys = append(keys, name)
		}
	}
	walk("", reflect.TypeOf(Config{}))
	return keys
}

// IsSecretKey reports whether a key holds a credential.
func IsSecretKey(key string) bool {
	return key == "identity.api_key" || key == "ai.openrouter_key"
}

// Clone returns a copy of the config. Config holds no reference types.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
// SECURITY: Redacts API keys so they never reach logs or the terminal.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Identity.APIKey != "" {
		safe.Identity.APIKey = "[REDACTED]"
	}
	if safe.AI.OpenRouterKey != "" {
		safe.AI.OpenRouterKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
