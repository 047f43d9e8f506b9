package cmd

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"
)

func TestTerminalDeviceNames(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in  string
		out string
	}{
		"windows": {in: "CONIN$", out: "CONOUT$"},
		"linux":   {in: "/dev/tty", out: "/dev/tty"},
		"darwin":  {in: "/dev/tty", out: "/dev/tty"},
	}
	for goos, expected := range tests {
		t.Run(goos, func(t *testing.T) {
			t.Parallel()
			in, out := terminalDeviceNames(goos)
			require.Equal(t, expected.in, in)
			require.Equal(t, expected.out, out)
		})
	}
}

func stubPiping(t *testing.T, stdin, stdout bool) {
	t.Helper()
	origIn, origOut, origOpen := stdinIsPiped, stdoutIsPiped, openTerminalIOFn
	stdinIsPiped = func() bool { return stdin }
	stdoutIsPiped = func() bool { return stdout }
	t.Cleanup(func() {
		stdinIsPiped, stdoutIsPiped, openTerminalIOFn = origIn, origOut, origOpen
	})
}

func TestGetProgramOptions_PipedStdoutUsesTTYAndCleansUp(t *testing.T) {
	stubPiping(t, false, true)

	inFile, err := os.CreateTemp(t.TempDir(), "tty-in-*")
	require.NoError(t, err)
	outFile, err := os.CreateTemp(t.TempDir(), "tty-out-*")
	require.NoError(t, err)
	openTerminalIOFn = func() (*os.File, *os.File, error) { return inFile, outFile, nil }

	opts, cleanup := getProgramOptions()
	require.Len(t, opts, 3)

	cleanup()
	require.Error(t, inFile.Close())
	require.Error(t, outFile.Close())
}

func TestGetProgramOptions_TerminalUsesDefaults(t *testing.T) {
	stubPiping(t, false, false)
	openTerminalIOFn = func() (*os.File, *os.File, error) {
		return nil, nil, errors.New("should not be called")
	}

	opts, cleanup := getProgramOptions()
	require.Nil(t, opts)
	require.NotPanics(t, cleanup)
}

func TestGetProgramOptions_NoTTYFallsBack(t *testing.T) {
	stubPiping(t, true, false)
	openTerminalIOFn = func() (*os.File, *os.File, error) {
		return nil, nil, errors.New("no tty")
	}

	opts, cleanup := getProgramOptions()
	require.Nil(t, opts)
	require.NotPanics(t, cleanup)
}

type fakeResizeTicker struct {
	ch <-chan time.Time
}

func (f *fakeResizeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeResizeTicker) Stop()               {}

func TestWithTTYResizeWatcherSendsOnlyChanges(t *testing.T) {
	origTermGetSize, origTicker, origSend := termGetSize, newResizeTicker, sendWindowSize
	t.Cleanup(func() {
		termGetSize, newResizeTicker, sendWindowSize = origTermGetSize, origTicker, origSend
	})

	calls := atomic.Int32{}
	termGetSize = func(int) (int, int, error) {
		if calls.Add(1) <= 2 {
			return 80, 24, nil
		}
		return 81, 24, nil
	}
	ticks := make(chan time.Time, 3)
	newResizeTicker = func(time.Duration) resizeTicker { return &fakeResizeTicker{ch: ticks} }
	msgs := make(chan tea.WindowSizeMsg, 3)
	sendWindowSize = func(_ *tea.Program, msg tea.WindowSizeMsg) { msgs <- msg }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close(); _ = w.Close() }()

	var p tea.Program
	withTTYResizeWatcher(ctx, w)(&p)

	recv := func() tea.WindowSizeMsg {
		select {
		case m := <-msgs:
			return m
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for resize message")
			return tea.WindowSizeMsg{}
		}
	}

	ticks <- time.Now()
	require.Equal(t, tea.WindowSizeMsg{Width: 80, Height: 24}, recv())

	ticks <- time.Now()
	select {
	case m := <-msgs:
		t.Fatalf("unexpected resize message on unchanged size: %+v", m)
	case <-time.After(100 * time.Millisecond):
	}

	ticks <- time.Now()
	require.Equal(t, tea.WindowSizeMsg{Width: 81, Height: 24}, recv())
}

func TestIsTerminalWriter(t *testing.T) {
	orig := termIsTerminal
	t.Cleanup(func() { termIsTerminal = orig })

	termIsTerminal = func(int) bool { return true }
	require.True(t, isTerminalWriter(os.Stdout))
	require.False(t, isTerminalWriter(&strings.Builder{}))

	termIsTerminal = func(int) bool { return false }
	require.False(t, isTerminalWriter(os.Stdout))
}
