package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/draftmill/inkbase/pkg/domain/types"
	"github.com/draftmill/inkbase/pkg/usecase"
	"github.com/draftmill/inkbase/pkg/utils/errutil"
)

type knowledgeBaseSummary struct {
	ID        types.KnowledgeBaseID `json:"id"`
	Name      string                `json:"name"`
	CreatedAt time.Time             `json:"createdAt"`
}

func listKnowledgeBasesHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := types.UserID(r.URL.Query().Get("userId"))

		kbs, err := uc.ListKnowledgeBases(ctx, userID)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}

		summaries := make([]knowledgeBaseSummary, 0, len(kbs))
		for _, kb := range kbs {
			summaries = append(summaries, knowledgeBaseSummary{
				ID:        kb.ID,
				Name:      kb.Name,
				CreatedAt: kb.CreatedAt,
			})
		}

		respondJSON(w, r, http.StatusOK, summaries)
	}
}

type createKnowledgeBaseRequest struct {
	UserID types.UserID `json:"userId"`
	Name   string       `json:"name"`
}

func createKnowledgeBaseHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createKnowledgeBaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode knowledge base request"), http.StatusBadRequest)
			return
		}

		kb, err := uc.CreateKnowledgeBase(ctx, req.UserID, req.Name)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}

		respondJSON(w, r, http.StatusOK, knowledgeBaseSummary{
			ID:        kb.ID,
			Name:      kb.Name,
			CreatedAt: kb.CreatedAt,
		})
	}
}
