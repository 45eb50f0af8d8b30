package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/service"
	"github.com/mmcdole/pixgrid/internal/tui/styles"
)

// Layout constants for the image list
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// NearEndRows is how close to the last row the cursor must be before
	// the next page is requested
	NearEndRows = 3
)

// ImageList is the scrollable results grid. With one column it renders as
// a list; with more, items flow left to right across each row.
type ImageList struct {
	images  []domain.Image
	isLiked func(id string) bool
	columns int

	// Selection (item index into the visible, possibly filtered, set)
	cursor     int
	offset     int // first visible row
	maxVisible int // visible rows

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	// Loading state
	loading     bool
	spinnerView string
	exhausted   bool
	started     bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filtered     []service.FilterResult
}

// NewImageList creates an empty image list laid out in columns
func NewImageList(columns int) *ImageList {
	if columns < 1 {
		columns = 1
	}
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ImageList{
		columns:     columns,
		isLiked:     func(string) bool { return false },
		filterInput: ti,
		title:       "Results",
		focused:     true,
	}
}

// SetImages replaces the accumulated results. The cursor is kept so that
// appended pages do not move the selection.
func (l *ImageList) SetImages(images []domain.Image) {
	l.images = images
	if l.filterActive {
		l.applyFilter(false)
	}
	if count := l.ItemCount(); l.cursor >= count {
		l.cursor = max(count-1, 0)
	}
	l.ensureVisible()
}

// Reset clears results and selection for a new search
func (l *ImageList) Reset(title string) {
	l.images = nil
	l.cursor = 0
	l.offset = 0
	l.exhausted = false
	l.started = true
	l.title = title
	l.clearFilter()
}

// SetLikedFunc sets the lookup used to render like indicators
func (l *ImageList) SetLikedFunc(fn func(id string) bool) {
	if fn != nil {
		l.isLiked = fn
	}
}

// SetLoading toggles the loading row
func (l *ImageList) SetLoading(loading bool, spinner string) {
	l.loading = loading
	l.spinnerView = spinner
}

// SetExhausted marks that no more pages will arrive
func (l *ImageList) SetExhausted(exhausted bool) {
	l.exhausted = exhausted
}

// Update handles navigation and filter keys
func (l *ImageList) Update(msg tea.Msg) tea.Cmd {
	if !l.focused {
		return nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// Handle filter input when active and focused (typing mode)
	if l.filterActive && l.filterInput.Focused() {
		if isKey {
			switch {
			case key.Matches(keyMsg, ListKeys.Escape):
				l.clearFilter()
				return nil
			case key.Matches(keyMsg, ListKeys.Enter):
				// Accept filter, blur input to allow navigation
				l.filterInput.Blur()
				return nil
			case keyMsg.String() == "backspace" && l.filterInput.Value() == "":
				l.clearFilter()
				return nil
			}
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter(true)
		return cmd
	}

	if !isKey {
		return nil
	}

	// Filter active but blurred (navigation mode with filter results)
	if l.filterActive {
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			l.clearFilter()
			return nil
		case key.Matches(keyMsg, ListKeys.Filter):
			l.filterInput.Focus()
			return nil
		}
	}

	count := l.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		l.move(l.columns)
	case key.Matches(keyMsg, ListKeys.Up):
		l.move(-l.columns)
	case key.Matches(keyMsg, ListKeys.Right):
		if l.columns > 1 {
			l.move(1)
		}
	case key.Matches(keyMsg, ListKeys.Left):
		if l.columns > 1 {
			l.move(-1)
		}
	case key.Matches(keyMsg, ListKeys.Home):
		l.cursor = 0
		l.offset = 0
	case key.Matches(keyMsg, ListKeys.End):
		l.cursor = count - 1
		l.ensureVisible()
	case key.Matches(keyMsg, ListKeys.HalfDown):
		l.move(max(l.maxVisible/2, 1) * l.columns)
	case key.Matches(keyMsg, ListKeys.HalfUp):
		l.move(-max(l.maxVisible/2, 1) * l.columns)
	case key.Matches(keyMsg, ListKeys.PageDown):
		l.move(l.maxVisible * l.columns)
	case key.Matches(keyMsg, ListKeys.PageUp):
		l.move(-l.maxVisible * l.columns)
	}

	return nil
}

func (l *ImageList) move(delta int) {
	count := l.ItemCount()
	l.cursor = min(max(l.cursor+delta, 0), count-1)
	l.ensureVisible()
}

// View renders the list inside its border
func (l *ImageList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(l.width - frameW).
		Height(l.height - frameH).
		Render(l.renderContent())
}

// SetSize sets the outer size of the list
func (l *ImageList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// SetColumns changes how many items share a row
func (l *ImageList) SetColumns(columns int) {
	l.columns = max(columns, 1)
	l.ensureVisible()
}

// Columns returns the number of items per row
func (l *ImageList) Columns() int {
	return l.columns
}

// SetFocused sets whether the list receives keys
func (l *ImageList) SetFocused(focused bool) {
	l.focused = focused
}

// SelectedImage returns the image under the cursor
func (l *ImageList) SelectedImage() (domain.Image, bool) {
	if l.ItemCount() == 0 {
		return domain.Image{}, false
	}
	return l.imageAt(l.cursor), true
}

// SelectedIndex returns the cursor position in the visible set
func (l *ImageList) SelectedIndex() int {
	return l.cursor
}

// ItemCount returns the number of visible items (after filtering)
func (l *ImageList) ItemCount() int {
	if l.filterActive && l.filterQuery != "" {
		return len(l.filtered)
	}
	return len(l.images)
}

// NearEnd reports whether the cursor is within NearEndRows rows of the last
// loaded item. Always false while a filter narrows the list.
func (l *ImageList) NearEnd() bool {
	if l.filterActive && l.filterQuery != "" {
		return false
	}
	count := len(l.images)
	if count == 0 {
		return false
	}
	lastRow := (count - 1) / l.columns
	return l.cursor/l.columns >= lastRow-NearEndRows+1
}

// ToggleFilter activates the filter input
func (l *ImageList) ToggleFilter() {
	l.filterActive = true
	l.filterInput.Focus()
	l.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (l *ImageList) IsFiltering() bool {
	return l.filterActive
}

// IsFilterTyping returns true if filter is active and input is focused
func (l *ImageList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (l *ImageList) ClearFilter() {
	l.clearFilter()
}

// Internal methods

func (l *ImageList) recalcMaxVisible() {
	// Interior height minus title line and scroll indicators
	l.maxVisible = l.height - BorderHeight - ScrollIndicatorLines - 1
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *ImageList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	row := l.cursor / l.columns
	if row < l.offset {
		l.offset = row
	}
	if row >= l.offset+l.maxVisible {
		l.offset = row - l.maxVisible + 1
	}
}

func (l *ImageList) clearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.filtered = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
}

func (l *ImageList) applyFilter(resetCursor bool) {
	l.filterQuery = l.filterInput.Value()
	if l.filterQuery == "" {
		l.filtered = nil
		return
	}
	l.filtered = service.Filter(l.images, l.filterQuery)
	if resetCursor {
		l.cursor = 0
		l.offset = 0
	}
}

func (l *ImageList) imageAt(i int) domain.Image {
	if l.filterActive && l.filterQuery != "" {
		return l.filtered[i].Image
	}
	return l.images[i]
}

func (l *ImageList) matchesAt(i int) []int {
	if l.filterActive && l.filterQuery != "" {
		return l.filtered[i].MatchedIndexes
	}
	return nil
}

// Rendering

func (l *ImageList) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)

	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title, itemWidth))

	count := l.ItemCount()
	if count == 0 {
		var msg string
		switch {
		case l.loading:
			msg = l.spinnerView + " Searching..."
		case l.filterActive && l.filterQuery != "":
			msg = "No matches"
		case !l.started:
			msg = "Type a query and press enter"
		default:
			msg = "No images found"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(msg) + "\n "
		if l.filterActive {
			content += "\n" + l.renderFilterBar()
		}
		return content
	}

	rows := (count + l.columns - 1) / l.columns
	endRow := min(l.offset+l.maxVisible, rows)
	cellWidth := itemWidth / l.columns

	lines := make([]string, 0, endRow-l.offset)
	for row := l.offset; row < endRow; row++ {
		var cells []string
		for col := 0; col < l.columns; col++ {
			i := row*l.columns + col
			if i >= count {
				break
			}
			cells = append(cells, l.renderItem(i, i == l.cursor, cellWidth))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	// Always reserve space for header and footer to prevent layout shifts
	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	switch {
	case endRow < rows:
		footer = styles.DimStyle.Render("↓ more")
	case l.loading:
		footer = l.spinnerView + styles.DimStyle.Render(" Loading more...")
	case l.exhausted:
		footer = styles.DimStyle.Render("end of results")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.renderFilterBar()
	}
	return content
}

func (l *ImageList) renderItem(i int, selected bool, width int) string {
	img := l.imageAt(i)
	liked := l.isLiked(img.ID)

	heart := styles.UnlikedChar
	heartColor := styles.DimGray
	if liked {
		heart = styles.LikedChar
		heartColor = styles.Pink
	}

	parts := []styles.RowPart{{Text: heart + " ", Foreground: &heartColor}}

	dims := img.Dimensions()
	author := img.Author
	titleWidth := width - 4
	if l.columns == 1 {
		titleWidth -= len(dims) + len(author) + 4
	}
	titleWidth = max(titleWidth, 4)

	title := styles.Truncate(img.Title(), titleWidth)
	parts = append(parts, highlightParts(title, l.matchesAt(i))...)

	if l.columns == 1 {
		pad := titleWidth - lipgloss.Width(title)
		if pad > 0 {
			parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", pad)})
		}
		dim := styles.DimGray
		if author != "" {
			parts = append(parts, styles.RowPart{Text: "  " + author, Foreground: &dim})
		}
		if dims != "" {
			parts = append(parts, styles.RowPart{Text: "  " + dims, Foreground: &dim})
		}
	}

	return styles.RenderListRow(parts, selected, width)
}

// highlightParts splits text into row parts with fuzzy-matched bytes emphasised
func highlightParts(text string, matched []int) []styles.RowPart {
	if len(matched) == 0 {
		return []styles.RowPart{{Text: text}}
	}

	matchSet := make(map[int]bool, len(matched))
	for _, idx := range matched {
		matchSet[idx] = true
	}

	accent := styles.Accent
	var parts []styles.RowPart
	var run strings.Builder
	runMatched := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := styles.RowPart{Text: run.String()}
		if runMatched {
			part.Foreground = &accent
			part.Bold = true
		}
		parts = append(parts, part)
		run.Reset()
	}

	for idx, r := range text {
		m := matchSet[idx]
		if m != runMatched {
			flush()
			runMatched = m
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}

func (l *ImageList) renderFilterBar() string {
	input := l.filterInput.View()
	countStr := ""
	if l.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", l.ItemCount(), len(l.images)))
	}
	return input + countStr
}
