// Package app is the main entrypoint into the application, responsible for
// configuring and starting the application, services, dependency injection,
// etc.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/management"
	"github.com/leg100/hutch/internal/preferences"
	"github.com/leg100/hutch/internal/tui/top"
	"github.com/leg100/hutch/internal/version"
)

const (
	logFileName     = "hutch.log"
	preferencesFile = "hutch.db"
)

// App holds the services shared by the TUI.
type App struct {
	Client      *management.Client
	Preferences *preferences.Store
	Logger      *logging.Logger

	logFile *os.File
}

// Start parses the configuration, constructs the services, and starts the
// TUI, blocking until the user exits.
func Start(stdout, stderr io.Writer, args []string) error {
	cfg, err := Parse(stderr, args)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Version {
		fmt.Fprintln(stdout, "hutch", version.Version)
		return nil
	}

	app, err := New(cfg)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	return top.Start(app.TopOptions(cfg))
}

// New constructs the services.
func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	// Setup logging
	opts := cfg.Logging
	opts.AdditionalWriters = append(opts.AdditionalWriters, logFile)
	logger := logging.NewLogger(opts)

	client, err := management.NewClient(management.Options{
		URL:      cfg.URL,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  cfg.Timeout,
		Retries:  cfg.Retries,
		Logger:   logger,
	})
	if err != nil {
		logFile.Close()
		return nil, err
	}

	// Preferences are scoped to the management URL so that each broker has
	// its own set of restored tabs.
	prefs, err := preferences.Open(filepath.Join(cfg.DataDir, preferencesFile), cfg.URL, logger)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	// Log some info useful to the user
	logger.Info("started hutch", "version", version.Version, "url", cfg.URL)

	return &App{
		Client:      client,
		Preferences: prefs,
		Logger:      logger,
		logFile:     logFile,
	}, nil
}

// TopOptions returns the options for starting the TUI.
func (a *App) TopOptions(cfg Config) top.Options {
	return top.Options{
		Client:          a.Client,
		Preferences:     a.Preferences,
		Logger:          a.Logger,
		URL:             cfg.URL,
		RefreshInterval: cfg.RefreshInterval,
		Debug:           cfg.Debug,
	}
}

// Cleanup closes the preferences database and the log file.
func (a *App) Cleanup() {
	if err := a.Preferences.Close(); err != nil {
		a.Logger.Error("closing preferences", "error", err)
	}
	a.logFile.Close()
}
