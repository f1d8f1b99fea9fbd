package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/preferences"
	"github.com/leg100/hutch/internal/tui/top"
	"github.com/leg100/hutch/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const structure = `{
  "id": "b1",
  "name": "Broker",
  "virtualhostnodes": [
    {
      "id": "n1",
      "name": "default",
      "virtualhosts": [
        {
          "id": "v1",
          "name": "test",
          "queues": [{"id": "q1", "name": "orders"}]
        }
      ]
    }
  ]
}`

// entities served by the fake broker, keyed by path beneath /api/latest/
var entities = map[string]map[string]any{
	"broker": {
		"id":           "b1",
		"name":         "Broker",
		"modelVersion": "9.0",
		"virtualhostnodes": []any{
			map[string]any{"id": "n1", "name": "default"},
		},
	},
	"queue/default/test/orders": {
		"id":                 "q1",
		"name":               "orders",
		"queueDepthMessages": 3,
	},
}

// newBroker starts a fake broker management interface.
func newBroker(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/service/structure":
			io.WriteString(w, structure)
		case strings.HasSuffix(r.URL.Path, "/userpreferences/query"):
			io.WriteString(w, "[]")
		default:
			entity, ok := entities[strings.TrimPrefix(r.URL.Path, "/api/latest/")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			err := json.NewEncoder(w).Encode(entity)
			assert.NoError(t, err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type setupOption func(*setupOptions)

type setupOptions struct {
	stored []view.Descriptor
}

// withStoredTabs stores tabs from a previous session.
func withStoredTabs(descriptors ...view.Descriptor) setupOption {
	return func(opts *setupOptions) {
		opts.stored = append(opts.stored, descriptors...)
	}
}

func setup(t *testing.T, sopts ...setupOption) *teatest.TestModel {
	t.Helper()

	var opts setupOptions
	for _, fn := range sopts {
		fn(&opts)
	}

	srv := newBroker(t)
	cfg := Config{
		URL:      srv.URL,
		Username: "admin",
		Password: "admin",
		DataDir:  t.TempDir(),
		Timeout:  5 * time.Second,
		Logging: logging.Options{
			Level: "debug",
			AdditionalWriters: []io.Writer{
				&testLogger{t},
			},
		},
	}

	if len(opts.stored) > 0 {
		store, err := preferences.Open(filepath.Join(cfg.DataDir, preferencesFile), cfg.URL, logging.Discard)
		require.NoError(t, err)
		for _, d := range opts.stored {
			require.NoError(t, store.AppendTab(d))
		}
		require.NoError(t, store.Close())
	}

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)

	return top.StartTest(t, app.TopOptions(cfg), 160, 40)
}

// testLogger relays hutch log records to the go test logger
type testLogger struct {
	t *testing.T
}

func (l *testLogger) Write(b []byte) (int, error) {
	l.t.Helper()

	l.t.Log(string(b))
	return len(b), nil
}

func waitFor(t *testing.T, tm *teatest.TestModel, cond func(s string) bool) {
	t.Helper()

	teatest.WaitFor(
		t,
		tm.Output(),
		func(b []byte) bool {
			// Remove formatting
			return cond(ansi.Strip(string(b)))
		},
		teatest.WithCheckInterval(time.Millisecond*100),
		teatest.WithDuration(time.Second*10),
	)
}
