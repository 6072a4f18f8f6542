// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

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
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/bouncer/internal/greeting"
	"github.com/jeranaias/bouncer/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete bouncer configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// API is where the TUI fetches its message.
	API APIConfig `toml:"api" json:"api"`

	UI     UIConfig     `toml:"ui" json:"ui"`
	Log    LogConfig    `toml:"log" json:"log"`
	Server ServerConfig `toml:"server" json:"server"`
}

// APIConfig configures the greeting client.
type APIConfig struct {
	// BaseURL of the greeting API. Empty or "undefined" means the default.
	BaseURL     string `toml:"base_url" json:"base_url"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`
}

// UIConfig configures the terminal screen.
type UIConfig struct {
	FPS        int  `toml:"fps" json:"fps"`
	ShowHeader bool `toml:"show_header" json:"show_header"`
	ShowHelp   bool `toml:"show_help" json:"show_help"`
	AltScreen  bool `toml:"alt_screen" json:"alt_screen"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	// File receives the TUI's logs. The API server logs to stderr.
	File string `toml:"file" json:"file"`
}

// ServerConfig configures the greeting API.
type ServerConfig struct {
	Addr        string `toml:"addr" json:"addr"`
	Environment string `toml:"environment" json:"environment"`
	Message     string `toml:"message" json:"message"`
	// MessageFile, when set, replaces Message and is reloaded on change.
	MessageFile    string   `toml:"message_file" json:"message_file"`
	AllowedOrigins []string `toml:"allowed_origins" json:"allowed_origins"`
	RateLimitRPS   float64  `toml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst" json:"rate_limit_burst"`
	MetricsEnabled bool     `toml:"metrics_enabled" json:"metrics_enabled"`
}

// Version of the config file layout.
const Version = "1"

// Default returns the default configuration.
func Default() *Config {
	logFile := ""
	if dir, err := ConfigDir(); err == nil {
		logFile = filepath.Join(dir, "bouncer.log")
	}
	return &Config{
		Version: Version,
		API: APIConfig{
			BaseURL:     greeting.DefaultBaseURL,
			TimeoutSecs: 10,
		},
		UI: UIConfig{
			FPS:        60,
			ShowHeader: true,
			ShowHelp:   true,
			AltScreen:  true,
		},
		Log: LogConfig{
			Level: "info",
			File:  logFile,
		},
		Server: ServerConfig{
			Addr:           ":5000",
			Environment:    "Production",
			Message:        "Hello from the greeting API!",
			AllowedOrigins: []string{"https://gray-flower-0a8b3b81e.5.azurestaticapps.net"},
			RateLimitRPS:   20,
			RateLimitBurst: 40,
			MetricsEnabled: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the bouncer configuration directory. BOUNCER_CONFIG_DIR
// overrides the default ~/.bouncer.
func ConfigDir() (string, error) {
	if dir := os.Getenv("BOUNCER_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".bouncer"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv() error {
	return LoadDotEnvFrom(".env")
}

// LoadDotEnvFrom is LoadDotEnv for an explicit path.
func LoadDotEnvFrom(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			cfg := Default()
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			cfg := Default()
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = errors.Join(loadErr, fmt.Errorf("failed to load JSON config: %w", err))
			} else {
				return finish(cfg)
			}
		}
	}

	cfg, err := finish(Default())
	if err != nil {
		return nil, err
	}
	// Defaults, with any load error for informational purposes.
	return cfg, loadErr
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := fillDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logrus.WithField("keys", strings.Join(keys, ",")).Warn("ignoring unknown config keys")
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finish(cfg)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// "undefined" is what an unset build-time variable turns into.
	cfg.API.BaseURL = greeting.NormalizeBaseURL(cfg.API.BaseURL)
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}

	if cfg.UI.FPS == 0 {
		cfg.UI.FPS = defaults.UI.FPS
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaults.Log.File
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if cfg.Server.Environment == "" {
		cfg.Server.Environment = defaults.Server.Environment
	}
	if cfg.Server.Message == "" {
		cfg.Server.Message = defaults.Server.Message
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = defaults.Server.RateLimitBurst
	}

	return nil
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

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# bouncer configuration file\n")
	b.WriteString("# Environment variables (BOUNCER_*) override these values.\n\n")
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

	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{"api.base_url", fmt.Sprintf("invalid URL: %v", err)})
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, ValidationError{"api.base_url", "scheme must be http or https"})
		case u.Host == "":
			errs = append(errs, ValidationError{"api.base_url", "missing host"})
		}
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{"api.timeout_secs", "must be between 1 and 300"})
	}

	if c.UI.FPS < 1 || c.UI.FPS > 120 {
		errs = append(errs, ValidationError{"ui.fps", "must be between 1 and 120"})
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{"log.level", fmt.Sprintf("unknown level %q", c.Log.Level)})
	}

	if c.Server.Addr == "" {
		errs = append(errs, ValidationError{"server.addr", "must not be empty"})
	}
	if c.Server.RateLimitRPS < 0 {
		errs = append(errs, ValidationError{"server.rate_limit_rps", "must not be negative"})
	}
	if c.Server.RateLimitBurst < 1 {
		errs = append(errs, ValidationError{"server.rate_limit_burst", "must be at least 1"})
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin == "*" {
			continue
		}
		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{"server.allowed_origins", fmt.Sprintf("invalid origin %q", origin)})
		}
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
// Supported variables:
//   - BOUNCER_API_URL: overrides api.base_url ("undefined" is ignored)
//   - BOUNCER_FPS: overrides ui.fps
//   - BOUNCER_LOG_LEVEL: overrides log.level
//   - BOUNCER_LOG_FILE: overrides log.file
//   - BOUNCER_SERVER_ADDR: overrides server.addr
//   - BOUNCER_ENVIRONMENT: overrides server.environment
//   - BOUNCER_MESSAGE: overrides server.message
func (c *Config) ApplyEnvOverrides() {
	if u := greeting.NormalizeBaseURL(os.Getenv("BOUNCER_API_URL")); u != "" {
		c.API.BaseURL = u
	}

	if fps := os.Getenv("BOUNCER_FPS"); fps != "" {
		if n, err := strconv.Atoi(fps); err == nil {
			c.UI.FPS = n
		}
	}

	if level := os.Getenv("BOUNCER_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
	if file := os.Getenv("BOUNCER_LOG_FILE"); file != "" {
		c.Log.File = file
	}

	if addr := os.Getenv("BOUNCER_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if env := os.Getenv("BOUNCER_ENVIRONMENT"); env != "" {
		c.Server.Environment = env
	}
	if msg := os.Getenv("BOUNCER_MESSAGE"); msg != "" {
		c.Server.Message = msg
	}
}

// =============================================================================
// KEYS (DOT NOTATION)
// =============================================================================

// ErrUnknownKey is returned by Get and Set for a key no field carries.
var ErrUnknownKey = errors.New("unknown config key")

// Keys are the toml tags joined by dots, so "ui.fps" is Config.UI.FPS and
// the names match the file on disk.

// Get returns the value stored under key.
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.field(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set parses value into the field under key. Strings are converted to the
// field's type; lists are comma separated.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.field(key)
	if err != nil {
		return err
	}
	if s, ok := value.(string); ok {
		return setFromString(field, s)
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || !v.Type().ConvertibleTo(field.Type()) {
		return fmt.Errorf("%s: cannot assign %T", key, value)
	}
	field.Set(v.Convert(field.Type()))
	return nil
}

// field walks the struct tree one tag at a time. Only leaves are
// addressable by key.
func (c *Config) field(key string) (reflect.Value, error) {
	v := reflect.ValueOf(c).Elem()
	for _, part := range strings.Split(key, ".") {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		i := fieldIndex(v.Type(), part)
		if i < 0 {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		v = v.Field(i)
	}
	if v.Kind() == reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s is a section", ErrUnknownKey, key)
	}
	return v, nil
}

func fieldIndex(t reflect.Type, name string) int {
	for i := 0; i < t.NumField(); i++ {
		if tagName(t.Field(i)) == name {
			return i
		}
	}
	return -1
}

func tagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
	return name
}

func setFromString(field reflect.Value, s string) error {
	s = strings.TrimSpace(s)
	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%q is not a whole number", s)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		field.SetFloat(f)
	case reflect.Bool:
		switch strings.ToLower(s) {
		case "true", "yes", "on", "1":
			field.SetBool(true)
		case "false", "no", "off", "0":
			field.SetBool(false)
		default:
			return fmt.Errorf("%q is not true or false", s)
		}
	case reflect.Slice:
		var items []string
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// GetAllKeys lists every settable key in declaration order.
func GetAllKeys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			name := tagName(t.Field(i))
			if name == "" || name == "-" {
				continue
			}
			if ft := t.Field(i).Type; ft.Kind() == reflect.Struct {
				walk(ft, prefix+name+".")
				continue
			}
			keys = append(keys, prefix+name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Server.AllowedOrigins != nil {
		clone.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	}
	return &clone
}

// String returns the config as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			logrus.WithError(err).Warn("using default configuration")
			if cfg == nil {
				cfg = Default()
			}
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if cfg == nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return err
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
