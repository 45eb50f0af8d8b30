package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/tui/styles"
)

// shareOption is one row of the share sheet
type shareOption struct {
	target   domain.ShareTarget
	label    string
	shortcut string
}

var shareOptions = []shareOption{
	{domain.ShareTargetClipboard, "Copy to clipboard", "c"},
	{domain.ShareTargetBrowser, "Open in browser", "o"},
}

// ShareSheet is a small popup for choosing how to share an image
type ShareSheet struct {
	visible bool
	cursor  int
	url     string
}

// NewShareSheet creates a new share sheet
func NewShareSheet() ShareSheet {
	return ShareSheet{}
}

// Show displays the sheet for url
func (m *ShareSheet) Show(url string) {
	m.visible = true
	m.cursor = 0
	m.url = url
}

// Hide dismisses the sheet
func (m *ShareSheet) Hide() {
	m.visible = false
}

// IsVisible returns whether the sheet is shown
func (m ShareSheet) IsVisible() bool {
	return m.visible
}

// URL returns the image being shared
func (m ShareSheet) URL() string {
	return m.url
}

// HandleKey processes a key press. done is true once the user picked a
// target or dismissed the sheet (target is ShareTargetNone then).
func (m *ShareSheet) HandleKey(msg tea.KeyMsg) (done bool, target domain.ShareTarget) {
	if !m.visible {
		return false, domain.ShareTargetNone
	}

	for _, opt := range shareOptions {
		if msg.String() == opt.shortcut {
			m.visible = false
			return true, opt.target
		}
	}

	switch {
	case key.Matches(msg, ShareSheetKeys.Down):
		if m.cursor < len(shareOptions)-1 {
			m.cursor++
		}
	case key.Matches(msg, ShareSheetKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, ShareSheetKeys.Enter):
		m.visible = false
		return true, shareOptions[m.cursor].target
	case key.Matches(msg, ShareSheetKeys.Dismiss):
		m.visible = false
		return true, domain.ShareTargetNone
	}

	return false, domain.ShareTargetNone // consume all keys when visible
}

// View renders the share sheet
func (m ShareSheet) View() string {
	if !m.visible {
		return ""
	}

	const rowWidth = 26

	var lines []string
	for i, opt := range shareOptions {
		text := styles.Pad(opt.shortcut+"  "+opt.label, rowWidth)
		if i == m.cursor {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.White).
				Background(styles.SlateLight).
				Render(text))
		} else {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.LightGray).
				Render(text))
		}
	}
	lines = append(lines, "", styles.DimStyle.Render("esc  dismiss"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Share image") + "\n" + strings.Join(lines, "\n"))
}
