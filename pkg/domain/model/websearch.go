package model

// WebSearchResult is a normalized external search hit. Snippet is bounded to
// 300 characters with a truncation marker; fields missing from the provider
// response hold the literal placeholder "unknown".
type WebSearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}
