package usecase

import (
	"time"

	"github.com/m-mizutani/gollem"

	"github.com/draftmill/inkbase/pkg/domain/interfaces"
	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/service/textsplit"
	"github.com/draftmill/inkbase/pkg/service/websearch"
	"github.com/draftmill/inkbase/pkg/utils/retry"
)

const (
	defaultMatchThreshold = 0.78
	defaultMatchLimit     = 10
	defaultCallTimeout    = 60 * time.Second
)

type UseCases struct {
	repo          interfaces.Repository
	llmClient     gollem.LLMClient
	searchService websearch.Service
	profile       *model.AssistantProfile
	splitter      *textsplit.Splitter

	matchThreshold float64
	matchLimit     int
	callTimeout    time.Duration
	retryOpts      []retry.Option
}

type Option func(*UseCases)

// WithWebSearch enables the web search step with the given provider.
// Without it the pipeline never searches, even when forced.
func WithWebSearch(svc websearch.Service) Option {
	return func(uc *UseCases) {
		uc.searchService = svc
	}
}

// WithProfile overrides the built-in assistant persona and prompts.
func WithProfile(profile *model.AssistantProfile) Option {
	return func(uc *UseCases) {
		if profile != nil {
			uc.profile = profile
		}
	}
}

// WithSplitter replaces the default document splitter used by ingestion.
func WithSplitter(s *textsplit.Splitter) Option {
	return func(uc *UseCases) {
		if s != nil {
			uc.splitter = s
		}
	}
}

// WithRetryOptions overrides the retry policy for external calls.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(uc *UseCases) {
		uc.retryOpts = opts
	}
}

// WithCallTimeout bounds each individual external call (embedding, LLM
// session, web search). The pipeline total is bounded by the request context.
func WithCallTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		if d > 0 {
			uc.callTimeout = d
		}
	}
}

func New(repo interfaces.Repository, llmClient gollem.LLMClient, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:           repo,
		llmClient:      llmClient,
		profile:        &model.AssistantProfile{},
		splitter:       textsplit.New(),
		matchThreshold: defaultMatchThreshold,
		matchLimit:     defaultMatchLimit,
		callTimeout:    defaultCallTimeout,
		retryOpts:      []retry.Option{retry.WithRetryable(isTransientError)},
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
