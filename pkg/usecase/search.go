package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/service/websearch"
	"github.com/draftmill/inkbase/pkg/utils/errutil"
	"github.com/draftmill/inkbase/pkg/utils/logging"
	"github.com/draftmill/inkbase/pkg/utils/retry"
)

//go:embed prompt/search_policy.md
var searchPolicyPromptTmpl string

var searchPolicyPrompt = template.Must(template.New("search_policy").Parse(searchPolicyPromptTmpl))

const (
	searchUnavailableText = "Unable to perform web search at this time."
	unknownField          = "unknown"
	snippetMaxRunes       = 300
)

// decideWebSearch asks the LLM whether the query needs live web data. The
// decision fails closed: any error, an empty reply or a missing search
// provider all mean no search.
func (uc *UseCases) decideWebSearch(ctx context.Context, query, contextBlock string) bool {
	if uc.searchService == nil {
		return false
	}

	systemPrompt := uc.profile.PolicyPrompt
	if systemPrompt == "" {
		var buf bytes.Buffer
		if err := searchPolicyPrompt.Execute(&buf, map[string]string{"Context": contextBlock}); err != nil {
			errutil.Handle(ctx, goerr.Wrap(err, "failed to render search policy prompt"), "skipping web search")
			return false
		}
		systemPrompt = buf.String()
	}

	ssn, err := uc.llmClient.NewSession(ctx, gollem.WithSessionSystemPrompt(systemPrompt))
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to create search policy session"), "skipping web search")
		return false
	}

	var resp *gollem.Response
	err = retry.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, uc.callTimeout)
		defer cancel()

		var genErr error
		resp, genErr = ssn.GenerateContent(callCtx, gollem.Text(query))
		return genErr
	}, uc.retryOpts...)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "search policy call failed"), "skipping web search")
		return false
	}
	if resp == nil || len(resp.Texts) == 0 {
		return false
	}

	decision := strings.Contains(strings.ToUpper(resp.Texts[0]), "YES")
	logging.From(ctx).Debug("web search decision", "search", decision)
	return decision
}

// runWebSearch queries the search provider and normalizes the results.
// A provider failure degrades to an empty result set with a fixed
// unavailability note instead of failing the request.
func (uc *UseCases) runWebSearch(ctx context.Context, query string) ([]model.WebSearchResult, string) {
	if uc.searchService == nil {
		return []model.WebSearchResult{}, searchUnavailableText
	}

	var hits []websearch.Hit
	err := retry.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, uc.callTimeout)
		defer cancel()

		var searchErr error
		hits, searchErr = uc.searchService.Search(callCtx, query)
		return searchErr
	}, uc.retryOpts...)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "web search failed"), "continuing without web results")
		return []model.WebSearchResult{}, searchUnavailableText
	}

	results := normalizeHits(hits)
	return results, renderSearchText(results)
}

// normalizeHits maps raw provider hits to the stable external shape.
// Missing fields fall back to "unknown" and snippets are capped at 300
// characters with a truncation marker.
func normalizeHits(hits []websearch.Hit) []model.WebSearchResult {
	results := make([]model.WebSearchResult, 0, len(hits))
	for _, h := range hits {
		title := h.Title
		if title == "" {
			title = unknownField
		}

		url := h.URL
		if url == "" {
			url = h.ID
		}
		if url == "" {
			url = unknownField
		}

		snippet := strings.TrimSpace(h.Text)
		if runes := []rune(snippet); len(runes) > snippetMaxRunes {
			snippet = string(runes[:snippetMaxRunes]) + "…"
		}
		if snippet == "" {
			snippet = unknownField
		}

		results = append(results, model.WebSearchResult{
			Title:   title,
			Snippet: snippet,
			URL:     url,
		})
	}
	return results
}

// renderSearchText formats normalized results as the web search section of
// the prompt context.
func renderSearchText(results []model.WebSearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nSummary: %s\nSource: %s", r.Title, r.Snippet, r.URL))
	}
	return strings.Join(blocks, "\n\n")
}
