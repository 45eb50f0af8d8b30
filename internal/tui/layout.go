package tui

// Grid sizing
const (
	// MinCellWidth is the narrowest grid cell before columns are dropped
	MinCellWidth = 24
)

// gridColumns returns how many columns fit in width, capped at the
// configured column count
func gridColumns(configured, width int) int {
	if configured < 1 {
		configured = 1
	}
	fit := max(width/MinCellWidth, 1)
	return min(configured, fit)
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	m.SearchBar.SetWidth(m.Width)
	contentHeight := max(m.Height-ChromeHeight-m.SearchBar.Height(), 3)

	m.List.SetColumns(gridColumns(m.gridColumns, m.Width))
	m.List.SetSize(m.Width, contentHeight)
	m.Preview.SetSize(m.Width, m.Height)
}
