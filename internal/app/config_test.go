package app

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/management"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	// Unset environment variables set on host computer
	t.Setenv("HUTCH_URL", "")
	t.Setenv("HUTCH_USERNAME", "")
	t.Setenv("HUTCH_PASSWORD", "")
	t.Setenv("HUTCH_DEBUG", "")
	t.Setenv("HUTCH_LOG_LEVEL", "")
	t.Setenv("HUTCH_REFRESH_INTERVAL", "")

	tests := []struct {
		name string
		file string
		args []string
		envs []string
		want func(t *testing.T, got Config)
	}{
		{
			"defaults",
			"",
			nil,
			nil,
			func(t *testing.T, got Config) {
				want := Config{
					URL:             DefaultURL,
					Username:        "admin",
					Password:        "admin",
					DataDir:         filepath.Join(os.Getenv("HOME"), ".hutch"),
					RefreshInterval: DefaultRefreshInterval,
					Timeout:         management.DefaultTimeout,
					Retries:         management.DefaultRetries,
					Logging: logging.Options{
						Level: "info",
					},
				}
				assert.Equal(t, want, got)
			},
		},
		{
			"config file override default",
			"url: https://broker:8443\n",
			nil,
			nil,
			func(t *testing.T, got Config) {
				assert.Equal(t, "https://broker:8443", got.URL)
			},
		},
		{
			"config file with refresh interval",
			"refresh-interval: 30s\n",
			nil,
			nil,
			func(t *testing.T, got Config) {
				assert.Equal(t, 30*time.Second, got.RefreshInterval)
			},
		},
		{
			"env var override default",
			"",
			nil,
			[]string{"HUTCH_USERNAME=guest"},
			func(t *testing.T, got Config) {
				assert.Equal(t, "guest", got.Username)
			},
		},
		{
			"flag override default",
			"",
			[]string{"--retries", "0"},
			nil,
			func(t *testing.T, got Config) {
				assert.Equal(t, 0, got.Retries)
			},
		},
		{
			"env var overrides config file",
			"url: https://broker:8443\n",
			nil,
			[]string{"HUTCH_URL=http://other:8080"},
			func(t *testing.T, got Config) {
				assert.Equal(t, "http://other:8080", got.URL)
			},
		},
		{
			"flag overrides both env var and config",
			"log-level: warn\n",
			[]string{"-l", "debug"},
			[]string{"HUTCH_LOG_LEVEL=error"},
			func(t *testing.T, got Config) {
				assert.Equal(t, "debug", got.Logging.Level)
			},
		},
		{
			"disable refresh",
			"",
			[]string{"-r", "0s"},
			nil,
			func(t *testing.T, got Config) {
				assert.Zero(t, got.RefreshInterval)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// isolate from any config file on the host computer
			t.Setenv("HOME", t.TempDir())

			// set env vars
			for _, ev := range tt.envs {
				name, val, _ := strings.Cut(ev, "=")
				t.Setenv(name, val)
			}

			// set config file
			if tt.file != "" {
				path := filepath.Join(os.Getenv("HOME"), ".hutch.yaml")
				err := os.WriteFile(path, []byte(tt.file), 0o644)
				require.NoError(t, err)
			}

			// and pass in flags
			got, err := Parse(io.Discard, tt.args)
			require.NoError(t, err)

			tt.want(t, got)
		})
	}
}

func TestConfig_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		args []string
	}{
		{"invalid log level", []string{"--log-level", "verbose"}},
		{"negative refresh interval", []string{"--refresh-interval", "-1s"}},
		{"negative retries", []string{"--retries", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(io.Discard, tt.args)
			assert.Error(t, err)
		})
	}
}
