package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/draftmill/inkbase/pkg/repository/memory"
	"github.com/draftmill/inkbase/pkg/usecase"
	"github.com/draftmill/inkbase/pkg/utils/retry"
)

func ingestRequest(content string) *usecase.IngestRequest {
	return &usecase.IngestRequest{
		UserID:          testUserID,
		KnowledgeBaseID: testKBID,
		FileName:        "notes.txt",
		Content:         content,
	}
}

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("persists document and chunks with file marker", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, &mockLLMClient{})
		uc.SetRetryOptions(retry.WithInitialInterval(time.Millisecond))

		para := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 10)
		content := para + "\n\n" + para + "\n\n" + para

		result, err := uc.Ingest(ctx, ingestRequest(content))
		gt.NoError(t, err).Required()

		gt.Value(t, string(result.DocumentID)).NotEqual("")
		gt.Number(t, result.ChunkCount).Greater(1)
		gt.Array(t, result.TempVectors).Length(0)

		doc, err := repo.Document().Get(ctx, testUserID, testKBID, result.DocumentID)
		gt.NoError(t, err).Required()
		gt.Value(t, doc.FileName).Equal("notes.txt")

		chunks, err := repo.Chunk().ListByDocumentID(ctx, testUserID, testKBID, result.DocumentID)
		gt.NoError(t, err).Required()
		gt.Array(t, chunks).Length(result.ChunkCount).Required()

		for i, c := range chunks {
			gt.Value(t, c.Index).Equal(i)
			gt.Bool(t, strings.HasPrefix(c.Text, "File: notes.txt\n\n")).True()
			gt.Array(t, c.Embedding).Length(3)
		}
	})

	t.Run("temporary documents return ephemeral vectors", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, &mockLLMClient{})
		uc.SetRetryOptions(retry.WithInitialInterval(time.Millisecond))

		req := ingestRequest("A short temporary note.")
		req.Temporary = true

		result, err := uc.Ingest(ctx, req)
		gt.NoError(t, err).Required()

		gt.Value(t, string(result.DocumentID)).Equal("")
		gt.Array(t, result.TempVectors).Length(result.ChunkCount).Required()
		gt.Bool(t, strings.HasPrefix(result.TempVectors[0].Text, "File: notes.txt\n\n")).True()

		docs, err := repo.Document().ListByKnowledgeBase(ctx, testUserID, testKBID)
		gt.NoError(t, err).Required()
		gt.Array(t, docs).Length(0)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		uc := usecase.New(memory.New(), &mockLLMClient{})

		_, err := uc.Ingest(ctx, ingestRequest(""))
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidRequest)).True()
	})

	t.Run("rejects oversized content", func(t *testing.T) {
		uc := usecase.New(memory.New(), &mockLLMClient{})

		_, err := uc.Ingest(ctx, ingestRequest(strings.Repeat("a", 10<<20+1)))
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidRequest)).True()
	})

	t.Run("embedding failure aborts ingestion", func(t *testing.T) {
		calls := int32(0)
		llm := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				atomic.AddInt32(&calls, 1)
				return nil, goerr.New("embedding service down")
			},
		}
		repo := memory.New()
		uc := usecase.New(repo, llm)
		uc.SetRetryOptions(retry.WithInitialInterval(time.Millisecond))

		_, err := uc.Ingest(ctx, ingestRequest("Some document text."))
		gt.Bool(t, errors.Is(err, usecase.ErrEmbeddingFailed)).True()
		gt.Value(t, atomic.LoadInt32(&calls)).Equal(int32(3))

		docs, listErr := repo.Document().ListByKnowledgeBase(ctx, testUserID, testKBID)
		gt.NoError(t, listErr).Required()
		gt.Array(t, docs).Length(0)
	})
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	uc := usecase.New(repo, &mockLLMClient{})
	uc.SetRetryOptions(retry.WithInitialInterval(time.Millisecond))

	result, err := uc.Ingest(ctx, ingestRequest("A document to delete."))
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.DeleteDocument(ctx, testUserID, testKBID, result.DocumentID)).Required()

	chunks, err := repo.Chunk().ListByDocumentID(ctx, testUserID, testKBID, result.DocumentID)
	gt.NoError(t, err).Required()
	gt.Array(t, chunks).Length(0)

	_, err = repo.Document().Get(ctx, testUserID, testKBID, result.DocumentID)
	gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
}
