package usecase

import "github.com/draftmill/inkbase/pkg/utils/retry"

// Exports for testing.
var (
	FuseChunks          = fuseChunks
	CosineSimilarity    = cosineSimilarity
	BuildContext        = buildContext
	RenderKnowledgeBase = renderKnowledgeBase
	NormalizeHits       = normalizeHits
	RenderSearchText    = renderSearchText
	ParseAnswer         = parseAnswer
	StripCodeFence      = stripCodeFence
	IsTransientError    = isTransientError

	RunWebSearch    = (*UseCases).runWebSearch
	DecideWebSearch = (*UseCases).decideWebSearch
)

const (
	FallbackAnswer        = fallbackAnswer
	SearchUnavailableText = searchUnavailableText
)

// SetRetryOptions overrides the retry policy for external calls in tests.
func (uc *UseCases) SetRetryOptions(opts ...retry.Option) {
	uc.retryOpts = opts
}
