package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/draftmill/inkbase/pkg/repository/memory"
	"github.com/draftmill/inkbase/pkg/service/websearch"
	"github.com/draftmill/inkbase/pkg/usecase"
	"github.com/draftmill/inkbase/pkg/utils/retry"
)

func newTestUseCases(llm *mockLLMClient, opts ...usecase.Option) *usecase.UseCases {
	uc := usecase.New(memory.New(), llm, opts...)
	uc.SetRetryOptions(retry.WithInitialInterval(time.Millisecond))
	return uc
}

func TestNormalizeHits(t *testing.T) {
	t.Run("missing fields fall back to unknown", func(t *testing.T) {
		results := usecase.NormalizeHits([]websearch.Hit{{Text: "some text"}})
		gt.Array(t, results).Length(1).Required()
		gt.Value(t, results[0].Title).Equal("unknown")
		gt.Value(t, results[0].URL).Equal("unknown")
		gt.Value(t, results[0].Snippet).Equal("some text")
	})

	t.Run("id substitutes for missing url", func(t *testing.T) {
		results := usecase.NormalizeHits([]websearch.Hit{
			{Title: "Doc", ID: "doc-123", Text: "body"},
		})
		gt.Array(t, results).Length(1).Required()
		gt.Value(t, results[0].URL).Equal("doc-123")
	})

	t.Run("long snippets are trimmed and capped with marker", func(t *testing.T) {
		long := "  " + strings.Repeat("a", 400) + "  "
		results := usecase.NormalizeHits([]websearch.Hit{
			{Title: "Doc", URL: "https://example.com", Text: long},
		})
		gt.Array(t, results).Length(1).Required()

		snippet := results[0].Snippet
		gt.Bool(t, strings.HasSuffix(snippet, "…")).True()
		gt.Value(t, len([]rune(snippet))).Equal(301)
	})

	t.Run("empty text falls back to unknown", func(t *testing.T) {
		results := usecase.NormalizeHits([]websearch.Hit{
			{Title: "Doc", URL: "https://example.com"},
			{Title: "Blank", URL: "https://example.com", Text: "   "},
		})
		gt.Array(t, results).Length(2).Required()
		gt.Value(t, results[0].Snippet).Equal("unknown")
		gt.Value(t, results[1].Snippet).Equal("unknown")
	})

	t.Run("short snippets have no marker", func(t *testing.T) {
		results := usecase.NormalizeHits([]websearch.Hit{
			{Title: "Doc", URL: "https://example.com", Text: "short"},
		})
		gt.Value(t, results[0].Snippet).Equal("short")
	})
}

func TestRenderSearchText(t *testing.T) {
	results := usecase.NormalizeHits([]websearch.Hit{
		{Title: "A", URL: "https://a.example.com", Text: "alpha"},
		{Title: "B", URL: "https://b.example.com", Text: "beta"},
	})

	text := usecase.RenderSearchText(results)
	gt.Value(t, text).Equal(
		"Title: A\nSummary: alpha\nSource: https://a.example.com\n\n" +
			"Title: B\nSummary: beta\nSource: https://b.example.com")
}

func TestDecideWebSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("yes answer triggers search", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return &gollem.Response{Texts: []string{"Well, yes. A search would help."}}, nil
					},
				}, nil
			},
		}
		uc := newTestUseCases(llm, usecase.WithWebSearch(&mockSearchService{}))

		gt.Bool(t, usecase.DecideWebSearch(uc, ctx, "query", "context")).True()
	})

	t.Run("no answer skips search", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return &gollem.Response{Texts: []string{"NO"}}, nil
					},
				}, nil
			},
		}
		uc := newTestUseCases(llm, usecase.WithWebSearch(&mockSearchService{}))

		gt.Bool(t, usecase.DecideWebSearch(uc, ctx, "query", "context")).False()
	})

	t.Run("llm failure fails closed", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return nil, goerr.New("model unavailable")
					},
				}, nil
			},
		}
		uc := newTestUseCases(llm, usecase.WithWebSearch(&mockSearchService{}))

		gt.Bool(t, usecase.DecideWebSearch(uc, ctx, "query", "context")).False()
	})

	t.Run("empty reply fails closed", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return &gollem.Response{}, nil
					},
				}, nil
			},
		}
		uc := newTestUseCases(llm, usecase.WithWebSearch(&mockSearchService{}))

		gt.Bool(t, usecase.DecideWebSearch(uc, ctx, "query", "context")).False()
	})

	t.Run("no provider means no search", func(t *testing.T) {
		llm := &mockLLMClient{}
		uc := newTestUseCases(llm)

		gt.Bool(t, usecase.DecideWebSearch(uc, ctx, "query", "context")).False()
		gt.Value(t, llm.sessions()).Equal(0)
	})
}

func TestRunWebSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("provider failure degrades to unavailability note", func(t *testing.T) {
		search := &mockSearchService{
			searchFn: func(ctx context.Context, query string) ([]websearch.Hit, error) {
				return nil, goerr.New("search backend down")
			},
		}
		uc := newTestUseCases(&mockLLMClient{}, usecase.WithWebSearch(search))

		results, text := usecase.RunWebSearch(uc, ctx, "query")
		gt.Array(t, results).Length(0)
		gt.Value(t, text).Equal(usecase.SearchUnavailableText)
		// 3 attempts before giving up
		gt.Value(t, search.callCount()).Equal(3)
	})

	t.Run("successful search renders context text", func(t *testing.T) {
		search := &mockSearchService{
			searchFn: func(ctx context.Context, query string) ([]websearch.Hit, error) {
				return []websearch.Hit{
					{Title: "Result", URL: "https://example.com", Text: "useful fact"},
				}, nil
			},
		}
		uc := newTestUseCases(&mockLLMClient{}, usecase.WithWebSearch(search))

		results, text := usecase.RunWebSearch(uc, ctx, "query")
		gt.Array(t, results).Length(1).Required()
		gt.Value(t, results[0].Title).Equal("Result")
		gt.Value(t, text).Equal("Title: Result\nSummary: useful fact\nSource: https://example.com")
	})

	t.Run("empty result set yields empty text", func(t *testing.T) {
		search := &mockSearchService{}
		uc := newTestUseCases(&mockLLMClient{}, usecase.WithWebSearch(search))

		results, text := usecase.RunWebSearch(uc, ctx, "query")
		gt.Array(t, results).Length(0)
		gt.Value(t, text).Equal("")
	})
}
