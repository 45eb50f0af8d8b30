package adapter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mmcdole/pixgrid/internal/domain"
)

// urlOpener abstracts opening a URL in the system handler
type urlOpener interface {
	OpenURL(url string) error
}

// Sharer delivers share requests to the clipboard or the system browser
type Sharer struct {
	opener urlOpener
	logger *slog.Logger

	// clipboard access; replaced in tests
	writeClipboard func(text string) error
	clipboardOK    func() bool
	// terminal that receives the OSC52 fallback sequence
	terminal io.Writer
}

// NewSharer creates a Sharer backed by the system clipboard with an OSC52
// fallback written to stderr of the controlling terminal.
func NewSharer(opener urlOpener, logger *slog.Logger) *Sharer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sharer{
		opener:         opener,
		logger:         logger,
		writeClipboard: clipboard.WriteAll,
		clipboardOK:    func() bool { return !clipboard.Unsupported },
		terminal:       os.Stderr,
	}
}

// Share implements domain.Sharer
func (s *Sharer) Share(ctx context.Context, target domain.ShareTarget, req domain.ShareRequest) (domain.ShareOutcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.ShareOutcome{}, err
	}

	switch target {
	case domain.ShareTargetNone:
		return domain.ShareOutcome{Action: domain.ShareActionDismissed}, nil

	case domain.ShareTargetClipboard:
		return s.copy(req.Message)

	case domain.ShareTargetBrowser:
		if s.opener == nil {
			return domain.ShareOutcome{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedTarget, target)
		}
		if err := s.opener.OpenURL(req.URL); err != nil {
			return domain.ShareOutcome{}, fmt.Errorf("failed to open browser: %w", err)
		}
		return domain.ShareOutcome{Action: domain.ShareActionShared}, nil

	default:
		return domain.ShareOutcome{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedTarget, target)
	}
}

// copy writes text to the system clipboard, falling back to OSC52 for
// terminals without a clipboard utility (e.g. over SSH).
func (s *Sharer) copy(text string) (domain.ShareOutcome, error) {
	if s.clipboardOK() {
		err := s.writeClipboard(text)
		if err == nil {
			return domain.ShareOutcome{Action: domain.ShareActionShared, Activity: "clipboard"}, nil
		}
		s.logger.Debug("system clipboard failed, trying osc52", "error", err)
	}

	if s.terminal == nil {
		return domain.ShareOutcome{}, fmt.Errorf("no clipboard available")
	}

	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(s.terminal); err != nil {
		return domain.ShareOutcome{}, fmt.Errorf("failed to write osc52 sequence: %w", err)
	}
	return domain.ShareOutcome{Action: domain.ShareActionShared, Activity: "osc52"}, nil
}
