package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/pixgrid/internal/tui/styles"
)

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner while a page loads, otherwise the status message
	var left string
	switch {
	case m.ctrl.Loading():
		statusText := fmt.Sprintf("Loading page %d...", m.ctrl.Page())
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(statusText)
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	// Center section: result and like counts
	var center string
	if m.ctrl.Started() {
		center = styles.DimStyle.Render(fmt.Sprintf("%d images", len(m.ctrl.Results())))
		if liked := m.ctrl.LikedCount(); liked > 0 {
			center += styles.DimStyle.Render(" · ") + styles.LikedHeart + styles.DimStyle.Render(fmt.Sprintf(" %d", liked))
		}
	}

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	// Layout: left + centered hints + right
	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	totalContent := leftWidth + centerWidth + rightWidth
	if totalContent >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
BROWSING                        PREVIEW
  j/k        Up/down               s      Share
  h/l        Left/right            d      Download
  g/Home     First image           o      Open in viewer
  G/End      Last image            Space  Like/unlike
  PgUp/PgDn  Scroll page           Esc    Close preview
  Ctrl+u/d   Scroll half page

SEARCH                          OTHER
  f/Tab      Edit query            Enter  Preview image
  Enter      Run search            Space  Like/unlike
  ↑/↓        Pick from history     r      Retry failed page
  Esc        Back to results       q      Quit
  /          Filter results        ?      This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
