package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/biter777/countries"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func (l LogLevel) ToSlog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type LogFormat string

const (
	LogFormatPlaintext LogFormat = "plaintext"
	LogFormatJSON      LogFormat = "json"
)

type Config struct {
	App   AppConfig
	Log   LogConfig
	Files FilesConfig
}

type AppConfig struct {
	Name  string `validate:"required"`
	Debug bool
	// ISO 3166-1 alpha-2 code of the country the register holds addresses for
	Country string `validate:"required,len=2"`
	Version string
}

type LogConfig struct {
	Format  LogFormat `validate:"oneof=plaintext json"`
	Level   LogLevel  `validate:"oneof=DEBUG INFO WARN ERROR"`
	Verbose bool
	// Log file, the terminal is owned by the interface. Empty means stderr.
	File string
}

type FilesConfig struct {
	// Directory that import and export paths are relative to
	Directory string
	// File name proposed for imports and exports, without extension
	DefaultName string `validate:"required" mapstructure:"DEFAULTNAME"`
	// Watch the last imported file for changes
	Watch bool
	// Debounce timer between file change notifications, in milliseconds
	Debounce int32 `validate:"gte=0"`
}

// CountryName returns the English name of the configured country.
func (c Config) CountryName() string {
	return countries.ByName(c.App.Country).String()
}

func (c *Config) IsTest() bool {
	return flag.Lookup("test.v") != nil || strings.HasSuffix(os.Args[0], ".test") ||
		strings.Contains(os.Args[0], "/_test/")
}

func setDefaults(reader *viper.Viper) {
	reader.SetDefault("App_Name", "Address Register")
	reader.SetDefault("App_Country", "NO")
	reader.SetDefault("App_Version", "v0.1")
	reader.SetDefault("App_Debug", false)
	reader.SetDefault("Log_Format", string(LogFormatPlaintext))
	reader.SetDefault("Log_Level", string(LogLevelInfo))
	reader.SetDefault("Log_File", "addressregister.log")
	reader.SetDefault("Log_Verbose", false)
	reader.SetDefault("Files_Directory", "")
	reader.SetDefault("Files_DefaultName", "AddressRegister")
	reader.SetDefault("Files_Watch", true)
	reader.SetDefault("Files_Debounce", 200) //nolint:mnd
}

// Load the configuration file from the specified filesystem.
// A missing config.toml is not an error, the defaults are used instead.
// You can specify additional .env files to load, by default this only checks for ".env" in the
// current working directory.
func Load(configFS fs.FS, dotenvFiles ...string) (*Config, error) {
	reader := viper.NewWithOptions(viper.KeyDelimiter("_"))
	reader.SetConfigType("toml")
	setDefaults(reader)

	file, err := configFS.Open("config.toml")
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("No config.toml found, using defaults...")
	} else if err != nil {
		return nil, fmt.Errorf("could not open config.toml: %w", err)
	} else {
		defer file.Close()
		if err = reader.ReadConfig(file); err != nil {
			return nil, fmt.Errorf("could not load the app configuration: %w", err)
		}
	}

	// Environment override
	err = godotenv.Load(dotenvFiles...)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("No .env file found, continuing...")
	} else if err != nil {
		return nil, fmt.Errorf(".env file found, but could not load it: %w", err)
	}
	reader.AutomaticEnv()

	var config Config
	if err := reader.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("invalid config format: %w", err)
	}
	config.App.Country = strings.ToUpper(config.App.Country)
	config.Log.Level = LogLevel(strings.ToUpper(string(config.Log.Level)))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.App.Debug && !config.IsTest() {
		slog.Warn("APP_DEBUG is turned on, logs will contain every register operation")
	}

	return &config, nil
}

// Validate checks every configured value.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if countries.ByName(c.App.Country) == countries.Unknown {
		return fmt.Errorf("invalid configuration: unknown country code %q", c.App.Country)
	}
	return nil
}
