package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	assert2 "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	assert := assert2.New(t)

	cfg := NewDefaultConfig()
	assert.False(cfg.StrictValidation)
	assert.False(cfg.ValidateResponses)
	assert.False(cfg.IdiomaticParams)
	assert.Empty(cfg.PassContextArgName)
	assert.False(cfg.Mock.Enabled)
	assert.Equal("info", cfg.Log.Level)
	assert.Equal(LogFormatText, cfg.Log.Format)
}

func TestNewConfigFromContent(t *testing.T) {
	assert := assert2.New(t)

	t.Run("full", func(t *testing.T) {
		content := []byte(`
strictValidation: true
validateResponses: true
idiomaticParams: true
passContextArgName: context_
mock:
  enabled: true
  all: true
log:
  level: debug
  format: json
`)
		cfg, err := NewConfigFromContent(content)
		require.NoError(t, err)

		assert.True(cfg.StrictValidation)
		assert.True(cfg.ValidateResponses)
		assert.True(cfg.IdiomaticParams)
		assert.Equal("context_", cfg.PassContextArgName)
		assert.True(cfg.Mock.Enabled)
		assert.True(cfg.Mock.All)
		assert.Equal("debug", cfg.Log.Level)
		assert.Equal(LogFormatJSON, cfg.Log.Format)
	})

	t.Run("partial keeps defaults", func(t *testing.T) {
		cfg, err := NewConfigFromContent([]byte("strictValidation: true\n"))
		require.NoError(t, err)

		assert.True(cfg.StrictValidation)
		assert.Equal("info", cfg.Log.Level)
		assert.Equal(LogFormatText, cfg.Log.Format)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := NewConfigFromContent([]byte("mock: [unclosed"))
		assert.Error(err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := NewConfigFromContent([]byte("log:\n  level: loud\n"))
		assert.ErrorContains(err, `invalid log level "loud"`)
	})

	t.Run("invalid log format", func(t *testing.T) {
		_, err := NewConfigFromContent([]byte("log:\n  format: xml\n"))
		assert.ErrorContains(err, `invalid log format "xml"`)
	})
}

func TestNewConfigFromFile(t *testing.T) {
	assert := assert2.New(t)

	t.Run("existing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "especifico.yml")
		require.NoError(t, os.WriteFile(path, []byte("mock:\n  enabled: true\n"), 0o644))

		cfg, err := NewConfigFromFile(path)
		require.NoError(t, err)
		assert.True(cfg.Mock.Enabled)
		assert.False(cfg.Mock.All)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := NewConfigFromFile(filepath.Join(t.TempDir(), "missing.yml"))
		assert.Error(err)
	})
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "especifico.yml")
	require.NoError(t, os.WriteFile(path, []byte("mock:\n  enabled: false\n"), 0o644))

	var (
		mu      sync.Mutex
		current *Config
	)
	err := WatchFile(path, func(cfg *Config, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		current = cfg
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("mock:\n  enabled: true\n"), 0o644))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return current != nil && current.Mock.Enabled
	}, 5*time.Second, 20*time.Millisecond)
}

func TestEnvOverrides(t *testing.T) {
	assert := assert2.New(t)

	t.Setenv("ESPECIFICO_STRICT_VALIDATION", "true")
	t.Setenv("ESPECIFICO_MOCK_ALL", "true")
	t.Setenv("ESPECIFICO_LOG_LEVEL", "warn")
	t.Setenv("ESPECIFICO_UNKNOWN", "x")

	cfg, err := NewConfigFromContent([]byte("strictValidation: false\nlog:\n  level: debug\n"))
	require.NoError(t, err)

	assert.True(cfg.StrictValidation)
	assert.True(cfg.Mock.All)
	assert.Equal("warn", cfg.Log.Level)
}

func TestEnvKey(t *testing.T) {
	assert := assert2.New(t)

	assert.Equal("log.level", envKey("ESPECIFICO_LOG_LEVEL"))
	assert.Equal("passContextArgName", envKey("ESPECIFICO_PASSCONTEXTARGNAME"))
	assert.Equal("passContextArgName", envKey("ESPECIFICO_PASS_CONTEXT_ARG_NAME"))
	assert.Equal("mock.enabled", envKey("ESPECIFICO_MOCK_ENABLED"))
	assert.Equal("", envKey("ESPECIFICO_HOME"))
}

func TestLogConfig_NewLogger(t *testing.T) {
	assert := assert2.New(t)

	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := LogConfig{Level: "warn", Format: LogFormatText}.NewLogger(buf)

		logger.Info("hidden")
		logger.Warn("shown", "key", "value")
		assert.NotContains(buf.String(), "hidden")
		assert.Contains(buf.String(), "msg=shown key=value")
	})

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := LogConfig{Level: "debug", Format: LogFormatJSON}.NewLogger(buf)

		logger.Debug("shown")
		assert.Contains(buf.String(), `"msg":"shown"`)
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := LogConfig{Level: "loud"}.NewLogger(buf)

		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(buf.String(), "hidden")
		assert.Contains(buf.String(), "shown")
	})
}

func TestConfig_SetupLogger(t *testing.T) {
	assert := assert2.New(t)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	cfg := NewDefaultConfig()
	cfg.Log.Level = "debug"
	cfg.SetupLogger(buf)

	slog.Debug("installed")
	assert.Contains(buf.String(), "installed")
}
