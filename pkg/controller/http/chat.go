package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/usecase"
	"github.com/draftmill/inkbase/pkg/utils/errutil"
)

const maxRequestBodyBytes = 32 << 20

// statusOf maps pipeline errors to HTTP status codes. Invalid input is the
// caller's fault; embedding and retrieval failures are upstream outages.
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrEmbeddingFailed), errors.Is(err, usecase.ErrRetrievalFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func chatHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.ChatRequest
		body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode chat request"), http.StatusBadRequest)
			return
		}

		resp, err := uc.Chat(ctx, &req)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}

		respondJSON(w, r, http.StatusOK, resp)
	}
}
