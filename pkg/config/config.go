// Package config loads the binder and validator settings.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
)

// EnvPrefix is the prefix of environment variables overriding file values.
// Underscores are ignored when matching keys: ESPECIFICO_MOCK_ENABLED=true sets mock.enabled.
const EnvPrefix = "ESPECIFICO_"

// Config is the especifico configuration.
// StrictValidation rejects query and form parameters the operation does not declare.
// ValidateResponses checks handler results against the response schema.
// IdiomaticParams passes arguments under snake_case names.
// PassContextArgName is the argument receiving the whole request context, if set.
// Mock controls the mock resolver.
// Log configures the default logger.
type Config struct {
	StrictValidation   bool       `koanf:"strictValidation"`
	ValidateResponses  bool       `koanf:"validateResponses"`
	IdiomaticParams    bool       `koanf:"idiomaticParams"`
	PassContextArgName string     `koanf:"passContextArgName"`
	Mock               MockConfig `koanf:"mock"`
	Log                LogConfig  `koanf:"log"`
}

// MockConfig enables mock responses.
// With All set every operation is mocked, otherwise only the unresolvable ones.
type MockConfig struct {
	Enabled bool `koanf:"enabled"`
	All     bool `koanf:"all"`
}

// LogFormat is the output format of the default logger.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogConfig configures the default logger.
type LogConfig struct {
	Level  string    `koanf:"level"`
	Format LogFormat `koanf:"format"`
}

// NewDefaultConfig creates the config used when no file is given.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}

// NewConfigFromFile loads the YAML file at path over the defaults,
// then applies environment overrides.
func NewConfigFromFile(path string) (*Config, error) {
	return load(file.Provider(path))
}

// NewConfigFromContent is NewConfigFromFile for in-memory YAML.
func NewConfigFromContent(content []byte) (*Config, error) {
	return load(rawbytes.Provider(content))
}

// WatchFile reloads the config at path whenever the file changes and passes
// the fresh config, or the reload error, to onChange.
func WatchFile(path string, onChange func(*Config, error)) error {
	f := file.Provider(path)
	return f.Watch(func(_ interface{}, err error) {
		if err != nil {
			slog.Error("Config watch error", "path", path, "error", err)
			onChange(nil, err)
			return
		}

		slog.Info("Config changed, reloading", "path", path)
		onChange(load(f))
	})
}

func load(p koanf.Provider) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(p, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Log.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var envKeys = map[string]string{}

func init() {
	for _, key := range []string{
		"strictValidation",
		"validateResponses",
		"idiomaticParams",
		"passContextArgName",
		"mock.enabled",
		"mock.all",
		"log.level",
		"log.format",
	} {
		envKeys[flatKey(key)] = key
	}
}

func flatKey(key string) string {
	return strings.NewReplacer(".", "", "_", "").Replace(strings.ToLower(key))
}

// envKey maps ESPECIFICO_LOG_LEVEL to log.level and ESPECIFICO_STRICT_VALIDATION
// to strictValidation. Unknown variables are skipped.
func envKey(name string) string {
	return envKeys[flatKey(strings.TrimPrefix(name, EnvPrefix))]
}

func (l LogConfig) validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	switch l.Format {
	case LogFormatText, LogFormatJSON:
		return nil
	}
	return fmt.Errorf("invalid log format %q", l.Format)
}

// NewLogger builds a logger writing to w.
// An unparsable level falls back to info.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if l.Format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetupLogger installs the configured logger as the slog default.
func (c *Config) SetupLogger(w io.Writer) {
	slog.SetDefault(c.Log.NewLogger(w))
}
