package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/utils/async"
	"github.com/draftmill/inkbase/pkg/utils/logging"
	"github.com/draftmill/inkbase/pkg/utils/retry"
)

// Chat runs the full retrieval-and-answer pipeline for one request:
// embed the query, retrieve and fuse knowledge base chunks, decide on and
// optionally run a web search, then synthesize the answer. Validation,
// embedding and retrieval failures abort the request; everything after
// retrieval degrades instead of failing.
func (uc *UseCases) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidRequest, err.Error())
	}

	queryVec, err := uc.embedQuery(ctx, req.Query)
	if err != nil {
		return nil, goerr.Wrap(ErrEmbeddingFailed, err.Error())
	}

	persisted, err := uc.repo.Chunk().MatchChunks(ctx, req.UserID, req.KnowledgeBaseID, queryVec, uc.matchThreshold, uc.matchLimit)
	if err != nil {
		return nil, goerr.Wrap(ErrRetrievalFailed, err.Error(),
			goerr.V("userID", req.UserID),
			goerr.V("kbID", req.KnowledgeBaseID),
		)
	}

	chunks := fuseChunks(queryVec, persisted, req.TempVectors, uc.matchLimit)
	kbText := renderKnowledgeBase(chunks)

	useSearch := req.ForceWebSearch
	if !useSearch {
		useSearch = uc.decideWebSearch(ctx, req.Query, buildContext(kbText, req.ChatHistory, "", req.EditorContent))
	}

	webResults := []model.WebSearchResult{}
	searchText := ""
	if useSearch {
		webResults, searchText = uc.runWebSearch(ctx, req.Query)
	}

	payload := uc.synthesizeAnswer(ctx, req.Query, buildContext(kbText, req.ChatHistory, searchText, req.EditorContent))

	resp := &model.ChatResponse{
		Answer:           payload.Answer,
		RelevantChunks:   chunks,
		UsedWebSearch:    useSearch,
		WebSources:       webResults,
		SuggestedChanges: payload.SuggestedChanges,
	}

	uc.recordChatLog(ctx, req, resp)

	logging.From(ctx).Info("chat pipeline completed",
		"userID", req.UserID,
		"kbID", req.KnowledgeBaseID,
		"chunks", len(chunks),
		"usedWebSearch", useSearch,
	)

	return resp, nil
}

// embedQuery embeds the query text with retry and converts the provider's
// float64 vector to the storage precision.
func (uc *UseCases) embedQuery(ctx context.Context, query string) ([]float32, error) {
	var embeddings [][]float64
	err := retry.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, uc.callTimeout)
		defer cancel()

		var embedErr error
		embeddings, embedErr = uc.llmClient.GenerateEmbedding(callCtx, model.EmbeddingDimension, []string{query})
		return embedErr
	}, uc.retryOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "embedding request failed")
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, goerr.New("embedding response is empty")
	}

	vec := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		vec[i] = float32(v)
	}
	return vec, nil
}

// recordChatLog persists an audit record without blocking the response.
func (uc *UseCases) recordChatLog(ctx context.Context, req *model.ChatRequest, resp *model.ChatResponse) {
	log := &model.ChatLog{
		ID:              model.NewChatLogID(),
		UserID:          req.UserID,
		KnowledgeBaseID: req.KnowledgeBaseID,
		Query:           req.Query,
		Answer:          resp.Answer,
		UsedWebSearch:   resp.UsedWebSearch,
		ChunkCount:      len(resp.RelevantChunks),
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		if _, err := uc.repo.ChatLog().Create(ctx, log); err != nil {
			return goerr.Wrap(err, "failed to record chat log", goerr.V("logID", log.ID))
		}
		return nil
	})
}
