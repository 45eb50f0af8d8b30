package domain

import "context"

// DefaultPageSize is the number of results requested per page
const DefaultPageSize = 20

// SearchClient fetches one page of search results.
// Results keep upstream order and never exceed the configured page size.
type SearchClient interface {
	FetchPage(ctx context.Context, query string, page int) ([]Image, error)
}
