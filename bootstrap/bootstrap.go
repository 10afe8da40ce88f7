package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/sindreglo/addressregister/config"
	"github.com/sindreglo/addressregister/flatfile"
	"github.com/sindreglo/addressregister/register"
)

// App is the state that is initialised through bootstrapping.
// There is exactly one register per App and the App is the only owner of it.
//
// Call Close when done to release the log file.
type App struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Register *register.Register
	Files    *flatfile.Service
	logFile  io.Closer
}

// New creates the logger, an empty register and the file service.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		panic("You need to supply a config.Config value to bootstrap the address register")
	}

	output := io.Writer(os.Stderr)
	var logFile *os.File
	if len(cfg.Log.File) > 0 {
		var err error
		logFile, err = os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:mnd
		if err != nil {
			return nil, fmt.Errorf("cannot open log file %q: %w", cfg.Log.File, err)
		}
		output = logFile
	}

	logger := createLogger(cfg, output, logFile != nil)
	r := register.New()

	app := &App{
		Cfg:      cfg,
		Logger:   logger,
		Register: r,
		Files:    flatfile.NewService(r, logger.With("component", "files")),
	}
	if logFile != nil {
		app.logFile = logFile
	}

	logger.Debug("Address register initialised", "country", cfg.CountryName())
	return app, nil
}

// Path resolves a file name that was entered by the user against the configured directory.
// Absolute paths are returned as-is.
func (a *App) Path(name string) string {
	if len(name) == 0 {
		name = a.Cfg.Files.DefaultName
	}
	if filepath.IsAbs(name) || len(a.Cfg.Files.Directory) == 0 {
		return name
	}
	return filepath.Join(a.Cfg.Files.Directory, name)
}

func (a *App) Close() error {
	if a.logFile == nil {
		return nil
	}
	return a.logFile.Close()
}

func createLogger(cfg *config.Config, output io.Writer, toFile bool) *slog.Logger {
	var logger *slog.Logger
	switch cfg.Log.Format {
	case config.LogFormatJSON:
		{
			logger = slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{
				Level:     cfg.Log.Level.ToSlog(),
				AddSource: cfg.Log.Verbose && cfg.App.Debug,
			}))
		}
	default:
		{
			logger = slog.New(tint.NewHandler(output, &tint.Options{
				Level:      cfg.Log.Level.ToSlog(),
				AddSource:  cfg.Log.Verbose && cfg.App.Debug,
				TimeFormat: time.DateTime,
				NoColor:    toFile,
			}))
		}
	}
	slog.SetDefault(logger)
	return logger
}
