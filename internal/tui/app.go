package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/service"
	"github.com/mmcdole/pixgrid/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// Vertical layout: single footer line
const ChromeHeight = 1

// tickInterval drives the spinner animation
const tickInterval = 100 * time.Millisecond

// ImageActions performs the preview actions
type ImageActions interface {
	Share(ctx context.Context, url string, target domain.ShareTarget) (domain.ShareOutcome, error)
	Download(ctx context.Context, url string) domain.Notice
	DownloadPath(url string) string
}

// PreviewRenderer turns an image URL into terminal art
type PreviewRenderer interface {
	Render(ctx context.Context, url string, cols, rows int) (string, error)
}

// ImageOpener opens an image in an external viewer
type ImageOpener interface {
	OpenImage(url string) error
}

// Deps are the services the model drives
type Deps struct {
	Controller *service.SearchController
	Actions    ImageActions
	Renderer   PreviewRenderer // nil disables in-terminal previews
	Opener     ImageOpener     // nil disables "open in viewer"
	History    *service.History

	GridColumns      int
	ConfirmDownloads bool
	ShowFetchErrors  bool
	InitialQuery     string

	Logger *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	ctrl     *service.SearchController
	actions  ImageActions
	renderer PreviewRenderer
	opener   ImageOpener
	logger   *slog.Logger

	// UI Components
	SearchBar  components.SearchBar
	List       *components.ImageList
	Preview    components.PreviewModal
	ShareSheet components.ShareSheet
	Confirm    components.ConfirmModal
	Notice     components.NoticeModal

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	gridColumns      int
	confirmDownloads bool
	showFetchErrors  bool
	initialQuery     string
	pendingDownload  string // URL awaiting the storage confirmation
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var suggest func(string) []string
	if deps.History != nil {
		suggest = deps.History.Suggest
	}

	list := components.NewImageList(deps.GridColumns)
	list.SetLikedFunc(deps.Controller.IsLiked)

	return Model{
		State:            StateBrowsing,
		ctrl:             deps.Controller,
		actions:          deps.Actions,
		renderer:         deps.Renderer,
		opener:           deps.Opener,
		logger:           logger,
		SearchBar:        components.NewSearchBar(suggest),
		List:             list,
		Preview:          components.NewPreviewModal(),
		ShareSheet:       components.NewShareSheet(),
		Confirm:          components.NewConfirmModal(),
		Notice:           components.NewNoticeModal(),
		gridColumns:      deps.GridColumns,
		confirmDownloads: deps.ConfirmDownloads,
		showFetchErrors:  deps.ShowFetchErrors,
		initialQuery:     deps.InitialQuery,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.initialQuery != "" {
		query := m.initialQuery
		return tea.Batch(TickCmd(tickInterval), func() tea.Msg {
			return SubmitQueryMsg{Query: query}
		})
	}
	return tea.Batch(TickCmd(tickInterval), m.SearchBar.Focus())
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		// A new size needs new art
		if m.Preview.IsVisible() {
			return m, m.requestPreviewArt()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		if m.ctrl.Loading() {
			m.List.SetLoading(true, RenderSpinner(m.SpinnerFrame))
		}
		return m, TickCmd(tickInterval)

	case SubmitQueryMsg:
		return m, m.submitQuery(msg.Query)

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case PreviewRenderedMsg:
		if !m.Preview.IsVisible() || m.Preview.Image().PreviewURL() != msg.URL {
			return m, nil
		}
		if cols, rows := m.Preview.ArtSize(); cols != msg.Cols || rows != msg.Rows {
			// Rendered for an older window size
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("preview render failed", "url", msg.URL, "error", msg.Err)
		}
		m.Preview.SetArt(msg.Art, msg.Err)
		return m, nil

	case ShareDoneMsg:
		// Share failures are logged by the action service and never surfaced
		if msg.Err != nil || msg.Outcome.Action != domain.ShareActionShared {
			return m, nil
		}
		switch msg.Target {
		case domain.ShareTargetClipboard:
			return m, m.setStatus("Copied to clipboard", false)
		case domain.ShareTargetBrowser:
			return m, m.setStatus("Opened in browser", false)
		}
		return m, m.setStatus("Shared", false)

	case DownloadDoneMsg:
		m.Notice.Show(msg.Notice)
		return m, nil

	case OpenedMsg:
		if msg.Err != nil {
			m.logger.Error("failed to open viewer", "url", msg.URL, "error", msg.Err)
			return m, m.setStatus("Could not open viewer: "+msg.Err.Error(), true)
		}
		return m, m.setStatus("Opened in viewer", false)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Forward everything else (cursor blink) to the focused input
	if m.SearchBar.Focused() {
		var cmd tea.Cmd
		m.SearchBar, cmd, _ = m.SearchBar.Update(msg)
		return m, cmd
	}
	return m, m.List.Update(msg)
}

// handlePageLoaded merges a fetched page and keeps the list in sync
func (m Model) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Apply(msg.Result) {
		return m, nil
	}
	m.syncList()

	if err := m.ctrl.LastErr(); err != nil && m.showFetchErrors {
		m.StatusMsg = fmt.Sprintf("search failed: %v (r to retry)", err)
		m.StatusIsErr = true
		return m, nil
	}

	// A short first page may not fill the screen; keep loading until it
	// does or the results run out
	if m.List.NearEnd() {
		return m, m.loadMore()
	}
	return m, nil
}

// submitQuery starts a new search session and returns its fetch command
func (m *Model) submitQuery(query string) tea.Cmd {
	m.SearchBar.SetValue(query)
	m.SearchBar.Blur()
	m.List.SetFocused(true)

	req := m.ctrl.Submit(query)
	title := "Results"
	if q := m.ctrl.Query(); q != "" {
		title = fmt.Sprintf("Results for %q", q)
	}
	m.List.Reset(title)
	m.StatusMsg = ""
	m.StatusIsErr = false
	m.syncList()

	return FetchPageCmd(m.ctrl, req)
}

// loadMore requests the next page when the cursor nears the end
func (m *Model) loadMore() tea.Cmd {
	req := m.ctrl.ScrollNearEnd()
	if req == nil {
		return nil
	}
	m.syncList()
	return FetchPageCmd(m.ctrl, req)
}

// retry reloads the page that failed
func (m *Model) retry() tea.Cmd {
	req := m.ctrl.Retry()
	if req == nil {
		return nil
	}
	m.StatusMsg = ""
	m.StatusIsErr = false
	m.syncList()
	return FetchPageCmd(m.ctrl, req)
}

// syncList copies controller state into the list component
func (m *Model) syncList() {
	m.List.SetImages(m.ctrl.Results())
	m.List.SetLoading(m.ctrl.Loading(), RenderSpinner(m.SpinnerFrame))
	m.List.SetExhausted(m.ctrl.Exhausted())
}

// openPreview selects img and starts rendering its art
func (m *Model) openPreview(img domain.Image) tea.Cmd {
	m.ctrl.Select(img)
	m.Preview.Show(img, m.ctrl.IsLiked(img.ID))
	m.Preview.SetSize(m.Width, m.Height)
	return m.requestPreviewArt()
}

// closePreview dismisses the preview and any sheet stacked on it
func (m *Model) closePreview() {
	m.ctrl.DismissPreview()
	m.Preview.Hide()
	m.ShareSheet.Hide()
}

// requestPreviewArt renders the previewed image at the current size
func (m *Model) requestPreviewArt() tea.Cmd {
	if m.renderer == nil || !m.Preview.IsVisible() {
		return nil
	}
	m.Preview.SetSize(m.Width, m.Height)
	cols, rows := m.Preview.ArtSize()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	m.Preview.SetLoading(true)
	return RenderPreviewCmd(m.renderer, m.Preview.Image().PreviewURL(), cols, rows)
}

// toggleLike flips the like state of img
func (m *Model) toggleLike(img domain.Image) {
	liked := m.ctrl.ToggleLike(img.ID)
	if m.Preview.IsVisible() && m.Preview.Image().ID == img.ID {
		m.Preview.SetLiked(liked)
	}
	m.logger.Debug("like toggled", "id", img.ID, "liked", liked)
}

// startDownload saves the previewed image, asking first when configured
func (m *Model) startDownload() tea.Cmd {
	url := m.ctrl.Selected()
	if url == "" || m.actions == nil {
		return nil
	}
	if m.confirmDownloads {
		m.pendingDownload = url
		m.Confirm.Show(service.StorageRationale(), "Saving to "+m.actions.DownloadPath(url))
		return nil
	}
	return DownloadCmd(m.actions, url)
}

// setStatus shows a transient status message
func (m *Model) setStatus(message string, isErr bool) tea.Cmd {
	m.StatusMsg = message
	m.StatusIsErr = isErr
	return ClearStatusCmd(3 * time.Second)
}

// quit ends the live session before exiting
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Close()
	return m, tea.Quit
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	var view string
	if m.Preview.IsVisible() {
		view = m.Preview.View()
	} else {
		// Suggestions change the search bar height between frames
		m.List.SetSize(m.Width, max(m.Height-ChromeHeight-m.SearchBar.Height(), 3))
		view = lipgloss.JoinVertical(lipgloss.Left,
			m.SearchBar.View(),
			m.List.View(),
			m.renderFooter(),
		)
	}

	// Overlay share sheet if visible
	if m.ShareSheet.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.ShareSheet.View())
	}

	// Overlay confirmation if visible
	if m.Confirm.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Confirm.View())
	}

	// Overlay notice if visible
	if m.Notice.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Notice.View())
	}

	return view
}
