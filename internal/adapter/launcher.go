package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher opens URLs in an external viewer or the system default handler
type Launcher struct {
	command string   // configured viewer command, empty for system default
	args    []string // additional arguments for the viewer
	logger  *slog.Logger

	// start runs the command; replaced in tests
	start func(name string, args ...string) error
	// lookPath resolves a command on PATH; replaced in tests
	lookPath func(file string) (string, error)
}

// candidateViewers defines the preferred image viewers for each platform.
// "open-a:" entries are macOS apps launched through `open -a`.
var candidateViewers = map[string][]string{
	"darwin":  {"open-a:Preview"},
	"linux":   {"imv", "feh", "sxiv", "eog"},
	"windows": {},
}

// NewLauncher creates a Launcher. command may contain arguments ("feh -F").
func NewLauncher(command string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	var args []string
	fields := strings.Fields(command)
	if len(fields) > 0 {
		command = fields[0]
		args = fields[1:]
	}

	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		start:    startCommand,
		lookPath: exec.LookPath,
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // Start async, don't wait
}

// OpenImage opens an image URL in the configured or detected viewer
func (l *Launcher) OpenImage(url string) error {
	// Tier 1: User configured a specific viewer
	if l.command != "" {
		l.logger.Info("using configured viewer", "command", l.command, "args", l.args)
		return l.start(l.command, append(append([]string{}, l.args...), url)...)
	}

	// Tier 2: Try candidate chain for this platform
	for _, candidate := range candidateViewers[runtime.GOOS] {
		err := l.tryCandidate(candidate, url)
		if err == nil {
			l.logger.Info("opened with detected viewer", "viewer", candidate)
			return nil
		}
		l.logger.Debug("viewer not available", "viewer", candidate, "error", err)
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	l.logger.Info("no candidate viewers found, using system default")
	return l.OpenURL(url)
}

// tryCandidate launches one candidate viewer
func (l *Launcher) tryCandidate(candidate, url string) error {
	if app, ok := strings.CutPrefix(candidate, "open-a:"); ok {
		return l.start("open", "-a", app, url)
	}
	if _, err := l.lookPath(candidate); err != nil {
		return err
	}
	return l.start(candidate, url)
}

// OpenURL opens the URL using the system default handler
func (l *Launcher) OpenURL(url string) error {
	name, args := defaultOpener(runtime.GOOS)
	if name == "" {
		return fmt.Errorf("no default opener for %s", runtime.GOOS)
	}

	l.logger.Info("launching with system default", "os", runtime.GOOS, "url", url)

	return l.start(name, append(args, url)...)
}

// defaultOpener returns the system URL handler for goos
func defaultOpener(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		return "cmd", []string{"/c", "start", ""}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", nil
	}
}
