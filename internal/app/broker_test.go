package app

import (
	"strings"
	"testing"

	"github.com/leg100/hutch/internal/resource"
	"github.com/leg100/hutch/internal/view"
)

func TestBroker(t *testing.T) {
	t.Parallel()

	tm := setup(t)

	// The broker tab is shown once the structure has loaded.
	waitFor(t, tm, func(s string) bool {
		return strings.Contains(s, "Broker: Broker") &&
			strings.Contains(s, "modelVersion")
	})
}

func TestBroker_RestoreTabs(t *testing.T) {
	t.Parallel()

	tm := setup(t, withStoredTabs(
		view.Descriptor{ObjectType: resource.Queue, ObjectID: "q1"},
		view.Descriptor{ObjectType: resource.Logs},
	))

	waitFor(t, tm, func(s string) bool {
		return strings.Contains(s, "Queue: orders") &&
			strings.Contains(s, "Logs") &&
			strings.Contains(s, "3 tabs")
	})
}

func TestLogs(t *testing.T) {
	t.Parallel()

	tm := setup(t)

	// Wait for the broker to load before going to logs
	waitFor(t, tm, func(s string) bool {
		return strings.Contains(s, "Broker: Broker")
	})
	tm.Type("l")

	waitFor(t, tm, func(s string) bool {
		return strings.Contains(s, "started hutch")
	})
}
