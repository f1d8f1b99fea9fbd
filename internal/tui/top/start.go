package top

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/leg100/hutch/internal/resource"
	"github.com/stretchr/testify/require"
)

// Start starts the TUI and blocks until the user exits.
func Start(opts Options) error {
	m, err := newModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m,
		// Use the full size of the terminal with its "alternate screen buffer"
		tea.WithAltScreen(),
	)

	ch, unsub := setupSubscriptions(opts)
	defer unsub()

	// Relay events to model in background
	go func() {
		for msg := range ch {
			p.Send(msg)
		}
	}()

	// Blocks until user quits
	_, err = p.Run()
	return err
}

// StartTest starts the TUI and returns a test model for testing purposes.
func StartTest(t *testing.T, opts Options, width, height int) *teatest.TestModel {
	m, err := newModel(opts)
	require.NoError(t, err)

	ch, unsub := setupSubscriptions(opts)
	t.Cleanup(unsub)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(width, height))

	// Relay events to model in background
	go func() {
		for msg := range ch {
			tm.Send(msg)
		}
	}()

	t.Cleanup(func() {
		tm.Quit()
	})
	return tm
}

func setupSubscriptions(opts Options) (chan tea.Msg, func()) {
	// Relay events to TUI. Deliberately set up subscriptions *before* any
	// events are triggered, to ensure the TUI receives all messages.
	ch := make(chan tea.Msg)
	wg := sync.WaitGroup{} // sync closure of subscriptions

	ctx, cancel := context.WithCancel(context.Background())

	{
		sub := opts.Logger.Subscribe(ctx)
		wg.Add(1)
		go func() {
			relay(ch, sub)
			wg.Done()
		}()
	}
	if opts.Preferences != nil {
		sub := opts.Preferences.Subscribe(ctx)
		wg.Add(1)
		go func() {
			relay(ch, sub)
			wg.Done()
		}()
	}
	// cleanup function to be invoked when program is terminated.
	return ch, func() {
		cancel()
		// Wait for relays to finish before closing channel, to avoid sends
		// to a closed channel, which would result in a panic.
		wg.Wait()
		close(ch)
	}
}

func relay[T any](ch chan<- tea.Msg, sub <-chan resource.Event[T]) {
	for ev := range sub {
		ch <- ev
	}
}
