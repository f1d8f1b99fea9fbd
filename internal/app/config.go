package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/management"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/peterbourgon/ff/v4/ffyaml"
)

const (
	DefaultURL             = "http://localhost:8080"
	DefaultRefreshInterval = 5 * time.Second
)

type Config struct {
	// URL of the broker's management interface.
	URL      string
	Username string
	Password string
	// DataDir is the directory in which the log file and the preferences
	// database are stored.
	DataDir         string
	RefreshInterval time.Duration
	Timeout         time.Duration
	Retries         int
	Debug           bool
	Logging         logging.Options

	Version bool
}

// Parse sets config in order of precedence:
// 1. flags > 2. env vars > 3. config file
func Parse(stderr io.Writer, args []string) (Config, error) {
	var cfg Config

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("retrieving user's home directory: %w", err)
	}
	defaultDataDir := filepath.Join(home, ".hutch")
	defaultConfigFile := filepath.Join(home, ".hutch.yaml")

	fs := ff.NewFlagSet("hutch")
	fs.StringVar(&cfg.URL, 'u', "url", DefaultURL, "URL of the broker's management interface.")
	fs.StringVar(&cfg.Username, 0, "username", "admin", "Username for the management interface.")
	fs.StringVar(&cfg.Password, 0, "password", "admin", "Password for the management interface.")
	fs.StringVar(&cfg.DataDir, 0, "data-dir", defaultDataDir, "Directory in which to store logs and preferences.")
	fs.DurationVar(&cfg.RefreshInterval, 'r', "refresh-interval", DefaultRefreshInterval, "Interval between refreshes of the active tab. Zero disables refreshing.")
	fs.DurationVar(&cfg.Timeout, 0, "timeout", management.DefaultTimeout, "Timeout for requests to the management interface.")
	fs.IntVar(&cfg.Retries, 0, "retries", management.DefaultRetries, "Maximum number of retries of a failed request.")
	fs.BoolVar(&cfg.Debug, 'd', "debug", "Log bubbletea messages to messages.log")
	fs.BoolVar(&cfg.Version, 'v', "version", "Print version.")
	_ = fs.String('c', "config", defaultConfigFile, "Path to config file.")

	{
		usage := fmt.Sprintf("Logging level (valid: %s).", strings.Join(logging.ValidLevels(), ","))
		fs.StringEnumVar(&cfg.Logging.Level, 'l', "log-level", usage, logging.ValidLevels()...)
	}

	err = ff.Parse(fs, args,
		ff.WithEnvVarPrefix("HUTCH"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parse),
		ff.WithConfigAllowMissingFile(),
	)
	if err != nil {
		// ff.Parse returns an error if there is an error or if -h/--help is
		// passed; in either case print flag usage in addition to error message.
		fmt.Fprintln(stderr, ffhelp.Flags(fs))
		return Config{}, err
	}
	if cfg.RefreshInterval < 0 {
		return Config{}, fmt.Errorf("refresh interval cannot be negative: %s", cfg.RefreshInterval)
	}
	if cfg.Retries < 0 {
		return Config{}, fmt.Errorf("retries cannot be negative: %d", cfg.Retries)
	}
	return cfg, nil
}
