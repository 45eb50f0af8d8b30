package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mmcdole/pixgrid/internal/domain"
)

// FetchRequest describes one page fetch issued by the controller.
// It carries the session context so a superseded fetch is cancelled.
type FetchRequest struct {
	Epoch     uint64
	SessionID string
	Query     string
	Page      int

	ctx context.Context
}

// Context returns the session context the fetch must run under
func (r *FetchRequest) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// PageResult is the outcome of a FetchRequest
type PageResult struct {
	Epoch  uint64
	Query  string
	Page   int
	Images []domain.Image
	Err    error
}

// SearchState is a snapshot of everything the screen renders
type SearchState struct {
	Query     string
	Page      int
	Results   []domain.Image
	Loading   bool
	Exhausted bool
	Selected  string // full-resolution URL of the previewed image, "" when none
	Liked     map[string]bool
	LastErr   error
	Epoch     uint64
	SessionID string
}

// SearchController owns the search session state and sequences page fetches.
// All methods except Fetch must be called from a single goroutine (the TUI
// update loop); Fetch only performs I/O and never touches state.
type SearchController struct {
	client  domain.SearchClient
	history *History
	logger  *slog.Logger

	base   context.Context
	ctx    context.Context
	cancel context.CancelFunc

	epoch     uint64
	sessionID string

	query     string
	page      int
	results   []domain.Image
	loading   bool
	exhausted bool
	lastErr   error

	selectedURL   string
	selectedImage *domain.Image
	liked         map[string]struct{}
}

// NewSearchController creates a controller in the IDLE state (page 1, no results).
// history may be nil.
func NewSearchController(client domain.SearchClient, history *History, logger *slog.Logger) *SearchController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchController{
		client:  client,
		history: history,
		logger:  logger,
		base:    context.Background(),
		page:    1,
		liked:   make(map[string]struct{}),
	}
}

// Submit starts a new session for query. The previous session's context is
// cancelled and its late results are discarded by Apply.
func (c *SearchController) Submit(query string) *FetchRequest {
	if c.cancel != nil {
		c.cancel()
	}
	c.ctx, c.cancel = context.WithCancel(c.base)

	c.epoch++
	c.sessionID = uuid.NewString()
	c.query = strings.TrimSpace(query)
	c.page = 1
	c.results = nil
	c.loading = false
	c.exhausted = false
	c.lastErr = nil

	if c.history != nil {
		c.history.Add(c.query)
	}

	c.logger.Info("search submitted", "query", c.query, "session", c.sessionID, "epoch", c.epoch)

	return c.LoadPage(1)
}

// LoadPage issues a fetch for page unless one is already in flight.
// Returns nil when the call is a no-op.
func (c *SearchController) LoadPage(page int) *FetchRequest {
	if c.loading {
		c.logger.Debug("load skipped, fetch in flight", "page", page, "session", c.sessionID)
		return nil
	}
	if page < 1 || c.epoch == 0 {
		return nil
	}

	c.loading = true
	return &FetchRequest{
		Epoch:     c.epoch,
		SessionID: c.sessionID,
		Query:     c.query,
		Page:      page,
		ctx:       c.ctx,
	}
}

// ScrollNearEnd advances to the next page and issues its fetch in one step.
// No-op while loading, once the session is exhausted, or before any search.
func (c *SearchController) ScrollNearEnd() *FetchRequest {
	if c.exhausted || c.loading || c.epoch == 0 {
		return nil
	}
	c.page++
	return c.LoadPage(c.page)
}

// Retry reloads the current page after a failed fetch ended the session
func (c *SearchController) Retry() *FetchRequest {
	if c.lastErr == nil || c.loading {
		return nil
	}
	c.exhausted = false
	c.lastErr = nil
	return c.LoadPage(c.page)
}

// Fetch performs the I/O for req. Safe to call from any goroutine.
func (c *SearchController) Fetch(req *FetchRequest) PageResult {
	images, err := c.client.FetchPage(req.Context(), req.Query, req.Page)
	return PageResult{
		Epoch:  req.Epoch,
		Query:  req.Query,
		Page:   req.Page,
		Images: images,
		Err:    err,
	}
}

// Apply merges a fetch result into the state. Results from a superseded
// session are dropped and Apply returns false.
func (c *SearchController) Apply(res PageResult) bool {
	if res.Epoch != c.epoch {
		c.logger.Debug("discarding stale page", "epoch", res.Epoch, "current", c.epoch, "query", res.Query, "page", res.Page)
		return false
	}

	c.loading = false

	switch {
	case res.Err != nil:
		// A failed page ends the session like an empty one; the error is
		// kept so the screen can tell the two apart
		c.lastErr = res.Err
		c.exhausted = true
		c.logger.Error("error fetching images", "query", res.Query, "page", res.Page, "session", c.sessionID, "error", res.Err)

	case len(res.Images) == 0:
		c.exhausted = true
		c.logger.Info("results exhausted", "query", res.Query, "page", res.Page, "total", len(c.results))

	default:
		c.results = append(c.results, res.Images...)
		c.logger.Debug("page appended", "query", res.Query, "page", res.Page, "added", len(res.Images), "total", len(c.results))
	}

	return true
}

// Select opens the preview for img
func (c *SearchController) Select(img domain.Image) {
	c.selectedURL = img.FullURL()
	c.selectedImage = &img
}

// DismissPreview closes the preview
func (c *SearchController) DismissPreview() {
	c.selectedURL = ""
	c.selectedImage = nil
}

// ToggleLike flips the liked state of id and returns the new state
func (c *SearchController) ToggleLike(id string) bool {
	if _, ok := c.liked[id]; ok {
		delete(c.liked, id)
		return false
	}
	c.liked[id] = struct{}{}
	return true
}

// IsLiked reports whether id is liked
func (c *SearchController) IsLiked(id string) bool {
	_, ok := c.liked[id]
	return ok
}

// LikedCount returns the number of liked images
func (c *SearchController) LikedCount() int {
	return len(c.liked)
}

// Close cancels the live session. Later results are discarded.
func (c *SearchController) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.epoch++
	c.loading = false
}

// Accessors. Results returns the accumulated slice; callers must not modify it.

func (c *SearchController) Query() string { return c.query }
func (c *SearchController) Page() int { return c.page }
func (c *SearchController) Results() []domain.Image { return c.results }
func (c *SearchController) Loading() bool { return c.loading }
func (c *SearchController) Exhausted() bool { return c.exhausted }
func (c *SearchController) LastErr() error { return c.lastErr }
func (c *SearchController) Selected() string { return c.selectedURL }
func (c *SearchController) Started() bool { return c.sessionID != "" }

// SelectedImage returns the record being previewed
func (c *SearchController) SelectedImage() (domain.Image, bool) {
	if c.selectedImage == nil {
		return domain.Image{}, false
	}
	return *c.selectedImage, true
}

// State returns a copy of the current state
func (c *SearchController) State() SearchState {
	liked := make(map[string]bool, len(c.liked))
	for id := range c.liked {
		liked[id] = true
	}
	results := make([]domain.Image, len(c.results))
	copy(results, c.results)

	return SearchState{
		Query:     c.query,
		Page:      c.page,
		Results:   results,
		Loading:   c.loading,
		Exhausted: c.exhausted,
		Selected:  c.selectedURL,
		Liked:     liked,
		LastErr:   c.lastErr,
		Epoch:     c.epoch,
		SessionID: c.sessionID,
	}
}
