package adapter

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type startCall struct {
	name string
	args []string
}

func newTestLauncher(command string, onPath map[string]bool) (*Launcher, *[]startCall) {
	var calls []startCall
	l := NewLauncher(command, NullLogger())
	l.start = func(name string, args ...string) error {
		calls = append(calls, startCall{name, args})
		return nil
	}
	l.lookPath = func(file string) (string, error) {
		if onPath[file] {
			return "/usr/bin/" + file, nil
		}
		return "", errors.New("not found")
	}
	return l, &calls
}

func TestOpenImageConfiguredCommand(t *testing.T) {
	l, calls := newTestLauncher("feh -F", nil)
	require.NoError(t, l.OpenImage("https://x/y.jpg"))
	require.Len(t, *calls, 1)
	assert.Equal(t, startCall{"feh", []string{"-F", "https://x/y.jpg"}}, (*calls)[0])
}

func TestOpenImageFallsBackToSystemOpener(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("candidate chain is platform specific")
	}
	l, calls := newTestLauncher("", nil)
	require.NoError(t, l.OpenImage("https://x/y.jpg"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "xdg-open", (*calls)[0].name)
}

func TestOpenImageUsesDetectedViewer(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("candidate chain is platform specific")
	}
	l, calls := newTestLauncher("", map[string]bool{"sxiv": true})
	require.NoError(t, l.OpenImage("https://x/y.jpg"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "sxiv", (*calls)[0].name)
}

func TestDefaultOpener(t *testing.T) {
	name, args := defaultOpener("windows")
	assert.Equal(t, "cmd", name)
	assert.Equal(t, []string{"/c", "start", ""}, args)

	name, _ = defaultOpener("darwin")
	assert.Equal(t, "open", name)

	name, _ = defaultOpener("freebsd")
	assert.Equal(t, "xdg-open", name)
}
