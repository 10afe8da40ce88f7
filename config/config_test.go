package config_test

import (
	"testing"
	"testing/fstest"

	"github.com/sindreglo/addressregister/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("ok: defaults without config.toml", func(t *testing.T) {
		cfg, err := config.Load(fstest.MapFS{})
		require.NoError(t, err)
		assert.Equal(t, "Address Register", cfg.App.Name)
		assert.Equal(t, "NO", cfg.App.Country)
		assert.Equal(t, "Norway", cfg.CountryName())
		assert.Equal(t, config.LogFormatPlaintext, cfg.Log.Format)
		assert.Equal(t, config.LogLevelInfo, cfg.Log.Level)
		assert.Equal(t, "AddressRegister", cfg.Files.DefaultName)
		assert.True(t, cfg.Files.Watch)
		assert.EqualValues(t, 200, cfg.Files.Debounce)
	})

	t.Run("ok: config.toml values", func(t *testing.T) {
		fs := fstest.MapFS{
			"config.toml": &fstest.MapFile{Data: []byte(`
[app]
name = "Adresser"
country = "se"

[log]
format = "json"
level = "debug"

[files]
directory = "/tmp/addresses"
defaultname = "Register"
watch = false
`)},
		}
		cfg, err := config.Load(fs)
		require.NoError(t, err)
		assert.Equal(t, "Adresser", cfg.App.Name)
		assert.Equal(t, "SE", cfg.App.Country)
		assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
		assert.Equal(t, config.LogLevelDebug, cfg.Log.Level)
		assert.Equal(t, "/tmp/addresses", cfg.Files.Directory)
		assert.Equal(t, "Register", cfg.Files.DefaultName)
		assert.False(t, cfg.Files.Watch)
	})

	t.Run("ok: environment overrides", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "WARN")
		t.Setenv("APP_DEBUG", "true")
		cfg, err := config.Load(fstest.MapFS{})
		require.NoError(t, err)
		assert.Equal(t, config.LogLevelWarn, cfg.Log.Level)
		assert.True(t, cfg.App.Debug)
	})

	t.Run("err: invalid log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "LOUD")
		_, err := config.Load(fstest.MapFS{})
		assert.Error(t, err)
	})

	t.Run("err: invalid log format", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "xml")
		_, err := config.Load(fstest.MapFS{})
		assert.Error(t, err)
	})

	t.Run("err: country must be a two-letter code", func(t *testing.T) {
		t.Setenv("APP_COUNTRY", "NOR")
		_, err := config.Load(fstest.MapFS{})
		assert.Error(t, err)
	})

	t.Run("err: malformed config.toml", func(t *testing.T) {
		fs := fstest.MapFS{"config.toml": &fstest.MapFile{Data: []byte("[app\nname=")}}
		_, err := config.Load(fs)
		assert.Error(t, err)
	})
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", config.LogLevelDebug.ToSlog().String())
	assert.Equal(t, "ERROR", config.LogLevelError.ToSlog().String())
	assert.Equal(t, "INFO", config.LogLevel("unknown").ToSlog().String())
}
