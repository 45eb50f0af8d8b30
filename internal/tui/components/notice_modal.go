package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/tui/styles"
)

// NoticeModal shows a titled alert until any key is pressed
type NoticeModal struct {
	visible bool
	notice  domain.Notice
}

// NewNoticeModal creates a hidden notice
func NewNoticeModal() NoticeModal {
	return NoticeModal{}
}

// Show displays n
func (m *NoticeModal) Show(n domain.Notice) {
	m.visible = true
	m.notice = n
}

// Hide dismisses the notice
func (m *NoticeModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the notice is shown
func (m NoticeModal) IsVisible() bool {
	return m.visible
}

// Notice returns the notice being shown
func (m NoticeModal) Notice() domain.Notice {
	return m.notice
}

// View renders the notice
func (m NoticeModal) View() string {
	if !m.visible {
		return ""
	}

	frame := styles.ModalStyle
	title := styles.SuccessStyle.Bold(true).Render(m.notice.Title)
	if m.notice.IsError() {
		frame = styles.ErrorModalStyle
		title = styles.ErrorStyle.Bold(true).Render(m.notice.Title)
	}

	body := lipgloss.NewStyle().Width(48).Foreground(styles.LightGray).Render(m.notice.Message)
	hint := styles.DimStyle.Render("press any key")

	return frame.Render(title + "\n\n" + body + "\n\n" + hint)
}
