package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/service"
)

// Command timeouts
const (
	shareTimeout    = 30 * time.Second
	downloadTimeout = 5 * time.Minute
	previewTimeout  = 30 * time.Second
)

// Command factories for async operations

// FetchPageCmd runs req on a command goroutine. A nil request yields a nil command.
func FetchPageCmd(ctrl *service.SearchController, req *service.FetchRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	return func() tea.Msg {
		return PageLoadedMsg{Result: ctrl.Fetch(req)}
	}
}

// ShareCmd hands url to the share facility
func ShareCmd(actions ImageActions, url string, target domain.ShareTarget) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shareTimeout)
		defer cancel()

		outcome, err := actions.Share(ctx, url, target)
		return ShareDoneMsg{Target: target, Outcome: outcome, Err: err}
	}
}

// DownloadCmd saves url into the downloads directory
func DownloadCmd(actions ImageActions, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
		defer cancel()

		return DownloadDoneMsg{Notice: actions.Download(ctx, url)}
	}
}

// RenderPreviewCmd renders url as terminal art sized to cols x rows
func RenderPreviewCmd(renderer PreviewRenderer, url string, cols, rows int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
		defer cancel()

		art, err := renderer.Render(ctx, url, cols, rows)
		return PreviewRenderedMsg{URL: url, Art: art, Err: err, Cols: cols, Rows: rows}
	}
}

// OpenImageCmd opens url in an external viewer
func OpenImageCmd(opener ImageOpener, url string) tea.Cmd {
	return func() tea.Msg {
		return OpenedMsg{URL: url, Err: opener.OpenImage(url)}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}
