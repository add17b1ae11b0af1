package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/draftmill/inkbase/pkg/utils/safe"
)

const (
	defaultBaseURL = "https://api.exa.ai"

	// maxContentChars bounds the full-text content requested per result.
	maxContentChars = 1000
)

// client implements Service against the Exa search API. Exa has no official
// Go SDK, so this is a minimal REST client over net/http.
type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *client) {
		c.baseURL = url
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a new web search service backed by Exa.
func New(apiKey string, opts ...Option) (Service, error) {
	if apiKey == "" {
		return nil, goerr.New("Exa API key is required")
	}

	c := &client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type searchRequest struct {
	Query    string          `json:"query"`
	Type     string          `json:"type"`
	Contents contentsRequest `json:"contents"`
}

type contentsRequest struct {
	Text textRequest `json:"text"`
}

type textRequest struct {
	MaxCharacters int `json:"maxCharacters"`
}

type searchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

func (c *client) Search(ctx context.Context, query string) ([]Hit, error) {
	body, err := json.Marshal(searchRequest{
		Query: query,
		Type:  "auto",
		Contents: contentsRequest{
			Text: textRequest{MaxCharacters: maxContentChars},
		},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create search request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call search API", goerr.V("query", query))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, goerr.Wrap(ErrUnavailable, "search API returned non-OK status",
				goerr.V("status", resp.StatusCode),
				goerr.V("body", string(data)),
			)
		}
		return nil, goerr.New("search API returned non-OK status",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(data)),
		)
	}

	var raw struct {
		Results *[]searchResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, goerr.Wrap(err, "failed to decode search response")
	}
	if raw.Results == nil {
		return nil, goerr.New("malformed search response: missing results")
	}

	hits := make([]Hit, 0, len(*raw.Results))
	for _, r := range *raw.Results {
		hits = append(hits, Hit{
			Title: r.Title,
			URL:   r.URL,
			ID:    r.ID,
			Text:  r.Text,
		})
	}

	return hits, nil
}
