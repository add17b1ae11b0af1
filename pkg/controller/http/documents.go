package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/draftmill/inkbase/pkg/domain/types"
	"github.com/draftmill/inkbase/pkg/usecase"
	"github.com/draftmill/inkbase/pkg/utils/errutil"
)

type documentRequest struct {
	UserID          types.UserID          `json:"userId"`
	KnowledgeBaseID types.KnowledgeBaseID `json:"kbId"`
	Name            string                `json:"name,omitempty"`
	FileName        string                `json:"fileName"`
	Content         string                `json:"content"`
	IsTemporary     bool                  `json:"isTemporary,omitempty"`
}

func documentsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req documentRequest
		body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode document request"), http.StatusBadRequest)
			return
		}

		result, err := uc.Ingest(ctx, &usecase.IngestRequest{
			UserID:          req.UserID,
			KnowledgeBaseID: req.KnowledgeBaseID,
			Name:            req.Name,
			FileName:        req.FileName,
			Content:         req.Content,
			Temporary:       req.IsTemporary,
		})
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}

		respondJSON(w, r, http.StatusOK, result)
	}
}

type deleteDocumentRequest struct {
	UserID          types.UserID          `json:"userId"`
	KnowledgeBaseID types.KnowledgeBaseID `json:"kbId"`
}

func deleteDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		docID := types.DocumentID(chi.URLParam(r, "documentID"))
		if err := docID.Validate(); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}

		var req deleteDocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode delete request"), http.StatusBadRequest)
			return
		}
		if err := req.UserID.Validate(); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}
		if err := req.KnowledgeBaseID.Validate(); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}

		if err := uc.DeleteDocument(ctx, req.UserID, req.KnowledgeBaseID, docID); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		respondJSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
	}
}

type documentSummary struct {
	ID        types.DocumentID `json:"id"`
	Name      string           `json:"name,omitempty"`
	FileName  string           `json:"fileName"`
	CreatedAt time.Time        `json:"createdAt"`
}

func listDocumentsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := types.UserID(r.URL.Query().Get("userId"))
		kbID := types.KnowledgeBaseID(r.URL.Query().Get("kbId"))

		docs, err := uc.ListDocuments(ctx, userID, kbID)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}

		summaries := make([]documentSummary, 0, len(docs))
		for _, d := range docs {
			summaries = append(summaries, documentSummary{
				ID:        d.ID,
				Name:      d.Name,
				FileName:  d.FileName,
				CreatedAt: d.CreatedAt,
			})
		}

		respondJSON(w, r, http.StatusOK, summaries)
	}
}
