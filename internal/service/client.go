package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/pixgrid/internal/domain"
)

// failSoftClient converts every fetch error into an empty page
type failSoftClient struct {
	next   domain.SearchClient
	logger *slog.Logger
}

// FailSoft wraps next so that transport and upstream errors are logged and
// reported as an empty page. Callers then cannot tell "no more results" from
// "request failed"; the controller uses the error variant unless the user
// opts out of seeing fetch errors.
func FailSoft(next domain.SearchClient, logger *slog.Logger) domain.SearchClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &failSoftClient{next: next, logger: logger}
}

func (c *failSoftClient) FetchPage(ctx context.Context, query string, page int) ([]domain.Image, error) {
	images, err := c.next.FetchPage(ctx, query, page)
	if err != nil {
		c.logger.Error("error fetching images", "query", query, "page", page, "error", err)
		return []domain.Image{}, nil
	}
	return images, nil
}

// pageCache is the subset of store.PageStore the caching client needs
type pageCache interface {
	Get(query string, page, perPage int) ([]domain.Image, bool)
	Put(query string, page, perPage int, images []domain.Image) error
}

// CachingClient serves pages from a cache before asking the wrapped client.
// Only non-empty successful pages are cached.
type CachingClient struct {
	next    domain.SearchClient
	cache   pageCache
	perPage int
	logger  *slog.Logger
}

// NewCachingClient creates a caching decorator. perPage is part of the cache
// key so a page size change never serves mismatched pages.
func NewCachingClient(next domain.SearchClient, cache pageCache, perPage int, logger *slog.Logger) *CachingClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingClient{next: next, cache: cache, perPage: perPage, logger: logger}
}

// FetchPage implements domain.SearchClient
func (c *CachingClient) FetchPage(ctx context.Context, query string, page int) ([]domain.Image, error) {
	if images, ok := c.cache.Get(query, page, c.perPage); ok {
		c.logger.Debug("page cache hit", "query", query, "page", page, "results", len(images))
		return images, nil
	}

	images, err := c.next.FetchPage(ctx, query, page)
	if err != nil || len(images) == 0 {
		return images, err
	}

	if err := c.cache.Put(query, page, c.perPage, images); err != nil {
		c.logger.Warn("failed to cache page", "query", query, "page", page, "error", err)
	}
	return images, nil
}
