package usecase

import "github.com/m-mizutani/goerr/v2"

// Pipeline errors that abort the request. Failures of the web search policy,
// the search itself and answer synthesis degrade instead of aborting, so
// they have no sentinel here.
var (
	ErrInvalidRequest  = goerr.New("invalid chat request")
	ErrEmbeddingFailed = goerr.New("failed to embed query")
	ErrRetrievalFailed = goerr.New("failed to retrieve knowledge base chunks")
)
