package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/tui/styles"
)

// ConfirmModal asks the user to allow an action, showing a rationale
type ConfirmModal struct {
	visible   bool
	rationale domain.Rationale
	detail    string
}

// NewConfirmModal creates a hidden confirmation dialog
func NewConfirmModal() ConfirmModal {
	return ConfirmModal{}
}

// Show displays the rationale; detail is an optional extra line
func (m *ConfirmModal) Show(rationale domain.Rationale, detail string) {
	m.visible = true
	m.rationale = rationale
	m.detail = detail
}

// Hide dismisses the dialog
func (m *ConfirmModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the dialog is shown
func (m ConfirmModal) IsVisible() bool {
	return m.visible
}

// HandleKey returns done once the user answered, and whether they allowed it
func (m *ConfirmModal) HandleKey(msg tea.KeyMsg) (done bool, allowed bool) {
	if !m.visible {
		return false, false
	}
	switch {
	case key.Matches(msg, ConfirmKeys.Confirm):
		m.visible = false
		return true, true
	case key.Matches(msg, ConfirmKeys.Deny):
		m.visible = false
		return true, false
	}
	return false, false
}

// View renders the dialog
func (m ConfirmModal) View() string {
	if !m.visible {
		return ""
	}

	const width = 44
	body := lipgloss.NewStyle().Width(width).Foreground(styles.LightGray)

	content := styles.ModalTitleStyle.Render(m.rationale.Title) + "\n" +
		body.Render(m.rationale.Message)
	if m.detail != "" {
		content += "\n\n" + styles.DimStyle.Width(width).Render(m.detail)
	}
	content += "\n\n" + styles.AccentStyle.Render("[Y]") + " Allow      " +
		styles.AccentStyle.Render("[N]") + " Deny"

	return styles.ModalStyle.Render(content)
}
