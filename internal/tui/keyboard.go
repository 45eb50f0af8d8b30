package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/pixgrid/internal/service"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	// Handle state-specific keys
	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	if m.Preview.IsVisible() {
		return m.handlePreviewKey(msg)
	}

	if m.SearchBar.Focused() {
		return m.handleSearchBarKey(msg)
	}

	return m.handleListKey(msg)
}

// routeToModal sends the key to the topmost modal. Returns handled=false
// when no modal is visible.
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch {
	case m.Notice.IsVisible():
		// Any key dismisses the notice
		m.Notice.Hide()
		return true, m, nil

	case m.Confirm.IsVisible():
		done, allowed := m.Confirm.HandleKey(msg)
		if !done {
			return true, m, nil
		}
		url := m.pendingDownload
		m.pendingDownload = ""
		if !allowed {
			m.logger.Info("download permission denied", "url", url)
			m.Notice.Show(service.PermissionDeniedNotice())
			return true, m, nil
		}
		return true, m, DownloadCmd(m.actions, url)

	case m.ShareSheet.IsVisible():
		url := m.ShareSheet.URL()
		done, target := m.ShareSheet.HandleKey(msg)
		if !done {
			return true, m, nil
		}
		if m.actions == nil {
			return true, m, nil
		}
		// A dismissed sheet is still reported so the outcome gets logged
		return true, m, ShareCmd(m.actions, url, target)
	}

	return false, m, nil
}

// handlePreviewKey handles keys while the preview is open
func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	img := m.Preview.Image()

	switch {
	case key.Matches(msg, Keys.Close):
		m.closePreview()
		return m, nil

	case key.Matches(msg, Keys.Like):
		m.toggleLike(img)
		return m, nil

	case key.Matches(msg, Keys.Share):
		if url := m.ctrl.Selected(); url != "" {
			m.ShareSheet.Show(url)
		}
		return m, nil

	case key.Matches(msg, Keys.Download):
		return m, m.startDownload()

	case key.Matches(msg, Keys.External):
		if m.opener == nil {
			return m, m.setStatus("No image viewer configured", true)
		}
		return m, OpenImageCmd(m.opener, m.ctrl.Selected())

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil
	}

	return m, nil
}

// handleSearchBarKey handles keys while the search bar has focus
func (m Model) handleSearchBarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var submitted bool
	m.SearchBar, cmd, submitted = m.SearchBar.Update(msg)
	if submitted {
		return m, m.submitQuery(m.SearchBar.Value())
	}
	if !m.SearchBar.Focused() {
		// Cancelled: hand focus back to the results
		m.List.SetFocused(true)
	}
	return m, cmd
}

// handleListKey handles keys while browsing results
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While typing a filter every key belongs to the filter input
	if m.List.IsFilterTyping() {
		return m, m.List.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.List.IsFiltering() {
			m.List.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.List.SetFocused(false)
		return m, m.SearchBar.Focus()

	case key.Matches(msg, Keys.Filter):
		m.List.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Retry):
		return m, m.retry()

	case key.Matches(msg, Keys.Open):
		if img, ok := m.List.SelectedImage(); ok {
			return m, m.openPreview(img)
		}
		return m, nil

	case key.Matches(msg, Keys.Like):
		if img, ok := m.List.SelectedImage(); ok {
			m.toggleLike(img)
		}
		return m, nil
	}

	// Navigation
	cmd := m.List.Update(msg)
	if m.List.NearEnd() {
		return m, tea.Batch(cmd, m.loadMore())
	}
	return m, cmd
}
