package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/pixgrid/internal/tui/styles"
)

// maxSuggestions is how many history entries are listed under the input
const maxSuggestions = 5

// SearchBar is the query input with history suggestions
type SearchBar struct {
	input       textinput.Model
	focused     bool
	width       int
	suggest     func(input string) []string
	suggestions []string
	cursor      int // -1 when no suggestion is highlighted
	prevValue   string
}

// NewSearchBar creates a search bar; suggest may be nil
func NewSearchBar(suggest func(string) []string) SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search photos..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "🔍 "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{
		input:   ti,
		suggest: suggest,
		cursor:  -1,
	}
}

// Focus puts the cursor in the input and lists suggestions
func (s *SearchBar) Focus() tea.Cmd {
	s.focused = true
	s.refreshSuggestions()
	return s.input.Focus()
}

// Blur leaves the input, keeping its text
func (s *SearchBar) Blur() {
	s.focused = false
	s.suggestions = nil
	s.cursor = -1
	s.input.Blur()
}

// Focused reports whether the search bar has the keyboard
func (s SearchBar) Focused() bool {
	return s.focused
}

// SetValue replaces the input text
func (s *SearchBar) SetValue(v string) {
	s.input.SetValue(v)
	s.input.CursorEnd()
	s.prevValue = v
}

// Value returns the current input text
func (s SearchBar) Value() string {
	return s.input.Value()
}

// SetWidth updates the rendered width
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	s.input.Width = max(width-6, 10)
}

// Suggestions returns the listed history entries
func (s SearchBar) Suggestions() []string {
	return s.suggestions
}

// Update handles input events, returns (bar, cmd, submitted)
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd, bool) {
	if !s.focused {
		return s, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, SearchBarKeys.Submit):
			if s.cursor >= 0 && s.cursor < len(s.suggestions) {
				s.SetValue(s.suggestions[s.cursor])
			}
			return s, nil, true
		case key.Matches(keyMsg, SearchBarKeys.Cancel):
			s.Blur()
			return s, nil, false
		case key.Matches(keyMsg, SearchBarKeys.Next):
			if len(s.suggestions) > 0 {
				s.cursor = min(s.cursor+1, len(s.suggestions)-1)
			}
			return s, nil, false
		case key.Matches(keyMsg, SearchBarKeys.Prev):
			if s.cursor >= 0 {
				s.cursor--
			}
			return s, nil, false
		case key.Matches(keyMsg, SearchBarKeys.Accept):
			if s.cursor >= 0 && s.cursor < len(s.suggestions) {
				s.SetValue(s.suggestions[s.cursor])
				s.refreshSuggestions()
			}
			return s, nil, false
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != s.prevValue {
		s.prevValue = s.input.Value()
		s.refreshSuggestions()
	}
	return s, cmd, false
}

func (s *SearchBar) refreshSuggestions() {
	s.cursor = -1
	if s.suggest == nil {
		s.suggestions = nil
		return
	}
	all := s.suggest(strings.TrimSpace(s.input.Value()))
	if len(all) > maxSuggestions {
		all = all[:maxSuggestions]
	}
	s.suggestions = all
}

// View renders the input line, plus suggestions while focused
func (s SearchBar) View() string {
	style := styles.InactiveBorder
	if s.focused {
		style = styles.ActiveBorder
	}
	frameW, _ := style.GetFrameSize()
	line := style.Width(max(s.width-frameW, 10)).Render(s.input.View())

	if !s.focused || len(s.suggestions) == 0 {
		return line
	}

	rows := make([]string, 0, len(s.suggestions))
	for i, q := range s.suggestions {
		text := styles.Truncate(q, max(s.width-6, 4))
		if i == s.cursor {
			rows = append(rows, styles.SelectedItemStyle.Render("↺ "+text))
		} else {
			rows = append(rows, styles.NormalItemStyle.Render("↺ "+text))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, strings.Join(rows, "\n"))
}

// Height returns the number of lines View currently takes
func (s SearchBar) Height() int {
	return lipgloss.Height(s.View())
}
