package tui

import (
	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/service"
)

// Message types for the TUI

// PageLoadedMsg carries the outcome of one page fetch
type PageLoadedMsg struct {
	Result service.PageResult
}

// ShareDoneMsg reports a finished share attempt
type ShareDoneMsg struct {
	Target  domain.ShareTarget
	Outcome domain.ShareOutcome
	Err     error
}

// DownloadDoneMsg carries the notice produced by a download
type DownloadDoneMsg struct {
	Notice domain.Notice
}

// PreviewRenderedMsg carries rendered image art for the preview
type PreviewRenderedMsg struct {
	URL  string
	Art  string
	Err  error
	Cols int
	Rows int
}

// OpenedMsg reports the result of launching an external viewer
type OpenedMsg struct {
	URL string
	Err error
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// SubmitQueryMsg starts a search for Query as if typed into the search bar
type SubmitQueryMsg struct {
	Query string
}

// TickMsg is a general tick message for animations
type TickMsg struct{}
