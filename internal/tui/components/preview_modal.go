package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/tui/styles"
)

// Lines used by the preview chrome around the image
const (
	previewHeaderLines = 2
	previewFooterLines = 3
)

// PreviewModal shows one image full-screen with its actions
type PreviewModal struct {
	visible bool
	image   domain.Image
	liked   bool

	art     string // rendered half-block image, "" until loaded
	loading bool
	err     error

	width  int
	height int
}

// NewPreviewModal creates a hidden preview
func NewPreviewModal() PreviewModal {
	return PreviewModal{}
}

// Show opens the preview for img
func (m *PreviewModal) Show(img domain.Image, liked bool) {
	m.visible = true
	m.image = img
	m.liked = liked
	m.art = ""
	m.err = nil
	m.loading = false
}

// Hide closes the preview
func (m *PreviewModal) Hide() {
	m.visible = false
	m.art = ""
	m.err = nil
	m.loading = false
}

// IsVisible returns whether the preview is shown
func (m PreviewModal) IsVisible() bool {
	return m.visible
}

// Image returns the image being previewed
func (m PreviewModal) Image() domain.Image {
	return m.image
}

// SetLiked updates the like indicator
func (m *PreviewModal) SetLiked(liked bool) {
	m.liked = liked
}

// SetLoading marks the image art as being fetched
func (m *PreviewModal) SetLoading(loading bool) {
	m.loading = loading
}

// SetArt sets the rendered image or the error that prevented it
func (m *PreviewModal) SetArt(art string, err error) {
	m.loading = false
	m.art = art
	m.err = err
}

// SetSize sets the screen size available to the preview
func (m *PreviewModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ArtSize returns the cell box the image art should fit
func (m PreviewModal) ArtSize() (cols, rows int) {
	return max(m.width-4, 1), max(m.height-previewHeaderLines-previewFooterLines-2, 1)
}

// View renders the preview
func (m PreviewModal) View() string {
	if !m.visible {
		return ""
	}

	width := max(m.width, 20)
	cols, rows := m.ArtSize()

	heart := styles.RenderLike(m.liked)
	title := styles.TitleStyle.Render(styles.Truncate(m.image.Title(), width-6))
	header := heart + " " + title

	var meta []string
	if m.image.Author != "" {
		meta = append(meta, "by "+m.image.Author)
	}
	if d := m.image.Dimensions(); d != "" {
		meta = append(meta, d)
	}
	if m.image.Likes > 0 {
		meta = append(meta, fmt.Sprintf("%d likes", m.image.Likes))
	}
	subtitle := styles.SubtitleStyle.Render(strings.Join(meta, " · "))

	var body string
	switch {
	case m.art != "":
		body = m.art
	case m.loading:
		body = styles.DimStyle.Render("Loading preview...")
	case m.err != nil:
		body = styles.DimStyle.Render("Preview unavailable")
	default:
		body = styles.DimStyle.Render(m.image.FullURL())
	}
	body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, body)

	hints := []string{
		styles.AccentStyle.Render("s") + styles.DimStyle.Render(" share"),
		styles.AccentStyle.Render("d") + styles.DimStyle.Render(" download"),
		styles.AccentStyle.Render("space") + styles.DimStyle.Render(" like"),
		styles.AccentStyle.Render("o") + styles.DimStyle.Render(" open"),
		styles.AccentStyle.Render("esc") + styles.DimStyle.Render(" close"),
	}
	footer := styles.DimStyle.Render(styles.Truncate(m.image.FullURL(), width-4)) + "\n" +
		strings.Join(hints, "   ")

	content := lipgloss.JoinVertical(lipgloss.Left, header, subtitle, body, footer)
	return lipgloss.NewStyle().Padding(0, 1).Render(content)
}
