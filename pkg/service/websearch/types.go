package websearch

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// ErrUnavailable marks provider failures worth retrying, such as rate
// limits and server-side outages.
var ErrUnavailable = goerr.New("search provider unavailable")

// Service defines the interface for the external web search provider.
type Service interface {
	// Search runs a free-text search and returns raw provider hits. Any
	// field of a hit may be empty depending on the provider response.
	Search(ctx context.Context, query string) ([]Hit, error)
}

// Hit is a single raw search result before normalization.
type Hit struct {
	Title string
	URL   string
	ID    string
	Text  string
}
