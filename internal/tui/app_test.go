package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/pixgrid/internal/domain"
	"github.com/mmcdole/pixgrid/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient serves pages from a function so tests can script each call
type fakeClient struct {
	mu    sync.Mutex
	fetch func(query string, page int) ([]domain.Image, error)
	calls []string
}

func (f *fakeClient) FetchPage(ctx context.Context, query string, page int) ([]domain.Image, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s#%d", query, page))
	fetch := f.fetch
	f.mu.Unlock()
	return fetch(query, page)
}

func pageOf(query string, page, n int) []domain.Image {
	images := make([]domain.Image, n)
	for i := range images {
		id := fmt.Sprintf("%s-%d-%d", query, page, i)
		images[i] = domain.Image{
			ID:          id,
			Description: "photo " + id,
			Author:      "author",
			URLs: domain.ImageURLs{
				Regular: "https://images.example.com/" + id + "?w=1080",
				Small:   "https://images.example.com/" + id + "?w=400",
			},
		}
	}
	return images
}

type shareCall struct {
	url    string
	target domain.ShareTarget
}

type fakeActions struct {
	mu        sync.Mutex
	shares    []shareCall
	downloads []string
	notice    domain.Notice
}

func (f *fakeActions) Share(ctx context.Context, url string, target domain.ShareTarget) (domain.ShareOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shares = append(f.shares, shareCall{url: url, target: target})
	if target == domain.ShareTargetNone {
		return domain.ShareOutcome{Action: domain.ShareActionDismissed}, nil
	}
	return domain.ShareOutcome{Action: domain.ShareActionShared}, nil
}

func (f *fakeActions) Download(ctx context.Context, url string) domain.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, url)
	return f.notice
}

func (f *fakeActions) DownloadPath(url string) string {
	return "/tmp/downloads/" + service.FileNameFromURL(url)
}

type fakeRenderer struct{}

func (fakeRenderer) Render(ctx context.Context, url string, cols, rows int) (string, error) {
	return "ART:" + url, nil
}

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) OpenImage(url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

type testEnv struct {
	client  *fakeClient
	actions *fakeActions
	opener  *fakeOpener
	ctrl    *service.SearchController
	model   Model
}

func newTestEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()

	env := &testEnv{
		client: &fakeClient{fetch: func(query string, page int) ([]domain.Image, error) {
			return pageOf(query, page, domain.DefaultPageSize), nil
		}},
		actions: &fakeActions{notice: domain.Notice{Kind: domain.NoticeSuccess, Title: "Download Success"}},
		opener:  &fakeOpener{},
	}
	env.ctrl = service.NewSearchController(env.client, service.NewHistory(), nil)

	deps := Deps{
		Controller:      env.ctrl,
		Actions:         env.actions,
		Renderer:        fakeRenderer{},
		Opener:          env.opener,
		History:         service.NewHistory(),
		GridColumns:     1,
		ShowFetchErrors: true,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	env.model = NewModel(deps)
	env.send(t, tea.WindowSizeMsg{Width: 100, Height: 40})
	return env
}

// send delivers msg and returns the resulting command
func (e *testEnv) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := e.model.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	e.model = m
	return cmd
}

// press delivers a key press
func (e *testEnv) press(t *testing.T, keys string) tea.Cmd {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	return e.send(t, msg)
}

// run executes cmd, feeds every resulting message back into the model
// and returns the messages in order
func (e *testEnv) run(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	var out []tea.Msg
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			out = append(out, e.run(t, c)...)
		}
		return out
	}
	out = append(out, msg)
	if next := e.send(t, msg); next != nil {
		if _, isPage := msg.(PageLoadedMsg); isPage {
			out = append(out, e.run(t, next)...)
		}
	}
	return out
}

func (e *testEnv) search(t *testing.T, query string) {
	t.Helper()
	cmd := e.send(t, SubmitQueryMsg{Query: query})
	require.NotNil(t, cmd)
	e.run(t, cmd)
}

func TestSubmitQueryLoadsFirstPage(t *testing.T) {
	env := newTestEnv(t)

	env.search(t, "cats")

	assert.Equal(t, []string{"cats#1"}, env.client.calls)
	assert.Equal(t, domain.DefaultPageSize, env.model.List.ItemCount())
	assert.False(t, env.ctrl.Loading())
	assert.Contains(t, env.model.View(), `Results for "cats"`)
}

func TestStalePageIsDiscarded(t *testing.T) {
	env := newTestEnv(t)

	first := env.send(t, SubmitQueryMsg{Query: "cats"})
	second := env.send(t, SubmitQueryMsg{Query: "dogs"})

	// The superseded fetch lands after the new search started
	env.run(t, first)
	assert.Equal(t, 0, env.model.List.ItemCount())

	env.run(t, second)
	require.Equal(t, domain.DefaultPageSize, env.model.List.ItemCount())
	img, ok := env.model.List.SelectedImage()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(img.ID, "dogs-"))
}

func TestScrollToEndLoadsNextPage(t *testing.T) {
	env := newTestEnv(t)
	env.search(t, "cats")

	cmd := env.press(t, "G")
	require.NotNil(t, cmd)
	assert.True(t, env.ctrl.Loading())
	assert.Equal(t, 2, env.ctrl.Page())

	// A second scroll while loading is a no-op
	assert.Nil(t, env.press(t, "k"))

	env.run(t, cmd)
	assert.Equal(t, 2*domain.DefaultPageSize, env.model.List.ItemCount())
	assert.Equal(t, []string{"cats#1", "cats#2"}, env.client.calls)
}

func TestShortPageKeepsLoadingUntilExhausted(t *testing.T) {
	env := newTestEnv(t)
	env.client.fetch = func(query string, page int) ([]domain.Image, error) {
		if page == 1 {
			return pageOf(query, page, 2), nil
		}
		return nil, nil
	}

	env.search(t, "rare")

	assert.Equal(t, []string{"rare#1", "rare#2"}, env.client.calls)
	assert.Equal(t, 2, env.model.List.ItemCount())
	assert.True(t, env.ctrl.Exhausted())

	// Exhausted sessions never fetch again
	assert.Nil(t, env.press(t, "G"))
}

func TestFetchErrorShowsRetry(t *testing.T) {
	env := newTestEnv(t)
	fail := true
	env.client.fetch = func(query string, page int) ([]domain.Image, error) {
		if fail {
			return nil, domain.ErrRateLimited
		}
		return pageOf(query, page, domain.DefaultPageSize), nil
	}

	env.search(t, "cats")
	assert.True(t, env.model.StatusIsErr)
	assert.Contains(t, env.model.StatusMsg, "search failed")
	assert.Contains(t, env.model.StatusMsg, "r to retry")

	fail = false
	cmd := env.press(t, "r")
	require.NotNil(t, cmd)
	assert.Empty(t, env.model.StatusMsg)

	env.run(t, cmd)
	assert.Equal(t, domain.DefaultPageSize, env.model.List.ItemCount())
	assert.NoError(t, env.ctrl.LastErr())
}

func TestFetchErrorHiddenWhenDisabled(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) { d.ShowFetchErrors = false })
	env.client.fetch = func(query string, page int) ([]domain.Image, error) {
		return nil, errors.New("boom")
	}

	env.search(t, "cats")
	assert.Empty(t, env.model.StatusMsg)
	assert.True(t, env.ctrl.Exhausted())
}

func TestPreviewOpensAndRendersArt(t *testing.T) {
	env := newTestEnv(t)
	env.search(t, "cats")

	img, ok := env.model.List.SelectedImage()
	require.True(t, ok)

	cmd := env.press(t, "enter")
	require.NotNil(t, cmd)
	assert.True(t, env.model.Preview.IsVisible())
	assert.Equal(t, img.FullURL(), env.ctrl.Selected())

	env.run(t, cmd)
	assert.Contains(t, env.model.View(), "ART:"+img.PreviewURL())

	env.press(t, "esc")
	assert.False(t, env.model.Preview.IsVisible())
	assert.Empty(t, env.ctrl.Selected())
}

func TestPreviewArtForOtherImageIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.search(t, "cats")
	env.press(t, "enter")

	env.send(t, PreviewRenderedMsg{URL: "https://elsewhere.example.com/x", Art: "WRONG"})
	assert.NotContains(t, env.model.View(), "WRONG")
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)
	env.search(t, "cats")
	img, _ := env.model.List.SelectedImage()

	env.press(t, " ")
	assert.True(t, env.ctrl.IsLiked(img.ID))

	// Likes survive into and out of the preview
	env.press(t, "enter")
	env.press(t, " ")
	assert.False(t, env.ctrl.IsLiked(img.ID))
	env.press(t, "esc")

	env.press(t, " ")
	assert.True(t, env.ctrl.IsLiked(img.ID))
	assert.Equal(t, 1, env.ctrl.LikedCount())
}

func TestShareToClipboard(t *testing.T) {
	env := newTestEnv(t)
	env.search(t, "cats")
	img, _ := env.model.List.SelectedImage()
	env.press(t, "enter")

	assert.Nil(t, env.press(t, "s"))
	require.True(t, env.model.ShareSheet.IsVisible())

	cmd := env.press(t, "c")
	require.NotNil(t, cmd)
	assert.False(t, env.model.ShareSheet.IsVisible())

	env.run(t, cmd)
	require.Len(t, env.actions.shares, 1)
	assert.Equal(t, shareCall{url: img.FullURL(), target: domain.ShareTargetClipboard}, env.actions.shares[0])
	assert.Equal(t, "Copied to clipboard", env.model.StatusMsg)
	assert.True(t, env.model.Preview.IsVisible())
}

func TestShareDismissed(t *testing.T) {
	env := newTestEnv(t)
	env.search(t, "cats")
	env.press(t, "enter")
	env.press(t, "s")

	cmd := env.press(t, "esc")
	require.NotNil(t, cmd)
	env.run(t, cmd)

	require.Len(t, env.actions.shares, 1)
	assert.Equal(t, domain.ShareTargetNone, env.actions.shares[0].target)
	assert.Empty(t, env.model.StatusMsg)
	// Esc closed the sheet, not the preview
	assert.True(t, env.model.Preview.IsVisible())
}

func TestDownloadWithoutConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.search(t, "cats")
	img, _ := env.model.List.SelectedImage()
	env.press(t, "enter")

	cmd := env.press(t, "d")
	require.NotNil(t, cmd)
	assert.False(t, env.model.Confirm.IsVisible())

	env.run(t, cmd)
	assert.Equal(t, []string{img.FullURL()}, env.actions.downloads)
	require.True(t, env.model.Notice.IsVisible())
	assert.Equal(t, domain.NoticeSuccess, env.model.Notice.Notice().Kind)

	// Any key dismisses the notice and leaves the preview open
	env.press(t, "x")
	assert.False(t, env.model.Notice.IsVisible())
	assert.True(t, env.model.Preview.IsVisible())
}

func TestDownloadConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		downloads int
		kind      domain.NoticeKind
	}{
		{name: "allowed", answer: "y", downloads: 1, kind: domain.NoticeSuccess},
		{name: "denied", answer: "n", downloads: 0, kind: domain.NoticePermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(d *Deps) { d.ConfirmDownloads = true })
			env.search(t, "cats")
			env.press(t, "enter")

			assert.Nil(t, env.press(t, "d"))
			require.True(t, env.model.Confirm.IsVisible())
			assert.Contains(t, env.model.View(), "Storage Permission")

			env.run(t, env.press(t, tt.answer))
			assert.False(t, env.model.Confirm.IsVisible())
			assert.Len(t, env.actions.downloads, tt.downloads)
			require.True(t, env.model.Notice.IsVisible())
			assert.Equal(t, tt.kind, env.model.Notice.Notice().Kind)
		})
	}
}

func TestOpenInViewer(t *testing.T) {
	env := newTestEnv(t)
	env.search(t, "cats")
	img, _ := env.model.List.SelectedImage()
	env.press(t, "enter")

	env.run(t, env.press(t, "o"))
	assert.Equal(t, []string{img.FullURL()}, env.opener.opened)
	assert.Equal(t, "Opened in viewer", env.model.StatusMsg)

	env.opener.err = errors.New("no viewer")
	env.run(t, env.press(t, "o"))
	assert.True(t, env.model.StatusIsErr)
}

func TestSearchBarSubmit(t *testing.T) {
	env := newTestEnv(t)
	env.search(t, "cats")

	env.press(t, "f")
	require.True(t, env.model.SearchBar.Focused())

	// Keys go to the input while it has focus
	env.send(t, tea.KeyMsg{Type: tea.KeyCtrlU})
	env.press(t, "dogs")
	assert.Equal(t, "dogs", env.model.SearchBar.Value())

	cmd := env.press(t, "enter")
	require.NotNil(t, cmd)
	assert.False(t, env.model.SearchBar.Focused())
	env.run(t, cmd)

	assert.Equal(t, "dogs", env.ctrl.Query())
	assert.Equal(t, []string{"cats#1", "dogs#1"}, env.client.calls)
}

func TestHelpScreen(t *testing.T) {
	env := newTestEnv(t)
	env.search(t, "cats")

	env.press(t, "?")
	assert.Equal(t, StateHelp, env.model.State)
	assert.Contains(t, env.model.View(), "This help")

	env.press(t, "j")
	assert.Equal(t, StateBrowsing, env.model.State)
}

func TestQuitClosesSession(t *testing.T) {
	env := newTestEnv(t)
	pending := env.send(t, SubmitQueryMsg{Query: "cats"})

	cmd := env.press(t, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// Results arriving after quit are dropped
	env.run(t, pending)
	assert.Equal(t, 0, env.model.List.ItemCount())
}

func TestInitialQuery(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) { d.InitialQuery = "forest" })

	cmd := env.model.Init()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	var submit tea.Cmd
	for _, c := range batch {
		// The tick waits one interval before firing
		if msg, ok := c().(SubmitQueryMsg); ok {
			assert.Equal(t, "forest", msg.Query)
			submit = env.send(t, msg)
		}
	}
	require.NotNil(t, submit)
	env.run(t, submit)

	assert.Equal(t, "forest", env.ctrl.Query())
	assert.False(t, env.model.SearchBar.Focused())
	assert.Equal(t, domain.DefaultPageSize, env.model.List.ItemCount())
}

func TestGridColumns(t *testing.T) {
	assert.Equal(t, 1, gridColumns(0, 200))
	assert.Equal(t, 3, gridColumns(3, 200))
	assert.Equal(t, 2, gridColumns(4, 50))
	assert.Equal(t, 1, gridColumns(4, 10))
}
