package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/domain/types"
	"github.com/draftmill/inkbase/pkg/utils/logging"
	"github.com/draftmill/inkbase/pkg/utils/retry"
)

const (
	maxDocumentBytes = 10 << 20
	embedBatchSize   = 16
	embedParallelism = 4
)

// IngestRequest submits one document for chunking and embedding. Temporary
// documents are embedded but not persisted; their vectors are returned to
// the caller for use as request-scoped context.
type IngestRequest struct {
	UserID          types.UserID
	KnowledgeBaseID types.KnowledgeBaseID
	Name            string
	FileName        string
	Content         string
	Temporary       bool
}

func (x *IngestRequest) Validate() error {
	if err := x.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid ingest request")
	}
	if err := x.KnowledgeBaseID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid ingest request")
	}
	if x.FileName == "" {
		return goerr.New("invalid ingest request: fileName cannot be empty")
	}
	if x.Content == "" {
		return goerr.New("invalid ingest request: content cannot be empty")
	}
	if len(x.Content) > maxDocumentBytes {
		return goerr.New("invalid ingest request: content exceeds size limit",
			goerr.V("size", len(x.Content)),
			goerr.V("limit", maxDocumentBytes),
		)
	}
	return nil
}

type IngestResult struct {
	DocumentID  types.DocumentID        `json:"documentId,omitempty"`
	ChunkCount  int                     `json:"chunkCount"`
	TempVectors []model.EphemeralVector `json:"tempVectors,omitempty"`
}

// Ingest splits a document, embeds each chunk and either persists the
// result or returns ephemeral vectors for temporary documents. Each chunk
// text carries a File marker line so answers can attribute their sources.
func (uc *UseCases) Ingest(ctx context.Context, req *IngestRequest) (*IngestResult, error) {
	if err := req.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidRequest, err.Error())
	}

	parts := uc.splitter.Split(req.Content)
	if len(parts) == 0 {
		return nil, goerr.Wrap(ErrInvalidRequest, "document has no extractable text")
	}

	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = fmt.Sprintf("File: %s\n\n%s", req.FileName, p)
	}

	vectors, err := uc.embedTexts(ctx, texts)
	if err != nil {
		return nil, goerr.Wrap(ErrEmbeddingFailed, err.Error(), goerr.V("fileName", req.FileName))
	}

	if req.Temporary {
		temp := make([]model.EphemeralVector, len(texts))
		for i := range texts {
			temp[i] = model.EphemeralVector{Text: texts[i], Embedding: vectors[i]}
		}
		return &IngestResult{ChunkCount: len(texts), TempVectors: temp}, nil
	}

	name := req.Name
	if name == "" {
		name = req.FileName
	}

	doc, err := uc.repo.Document().Create(ctx, &model.Document{
		ID:              model.NewDocumentID(),
		KnowledgeBaseID: req.KnowledgeBaseID,
		UserID:          req.UserID,
		Name:            name,
		FileName:        req.FileName,
		Content:         req.Content,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create document", goerr.V("fileName", req.FileName))
	}

	for i := range texts {
		chunk := &model.Chunk{
			ID:              model.NewChunkID(),
			DocumentID:      doc.ID,
			KnowledgeBaseID: req.KnowledgeBaseID,
			UserID:          req.UserID,
			Index:           i,
			Text:            texts[i],
			Embedding:       vectors[i],
		}
		if _, err := uc.repo.Chunk().Create(ctx, chunk); err != nil {
			return nil, goerr.Wrap(err, "failed to store chunk",
				goerr.V("documentID", doc.ID),
				goerr.V("index", i),
			)
		}
	}

	logging.From(ctx).Info("document ingested",
		"documentID", doc.ID,
		"fileName", req.FileName,
		"chunks", len(texts),
	)

	return &IngestResult{DocumentID: doc.ID, ChunkCount: len(texts)}, nil
}

// DeleteDocument removes a document and all of its chunks.
func (uc *UseCases) DeleteDocument(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, docID types.DocumentID) error {
	if err := uc.repo.Chunk().DeleteByDocumentID(ctx, userID, kbID, docID); err != nil {
		return goerr.Wrap(err, "failed to delete document chunks", goerr.V("documentID", docID))
	}
	if err := uc.repo.Document().Delete(ctx, userID, kbID, docID); err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V("documentID", docID))
	}
	return nil
}

// embedTexts embeds all chunk texts in bounded-parallel batches. Results
// land at their original indexes so chunk order is preserved.
func (uc *UseCases) embedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(embedParallelism)

	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		eg.Go(func() error {
			batch := texts[start:end]

			var embeddings [][]float64
			err := retry.Do(egCtx, func() error {
				callCtx, cancel := context.WithTimeout(egCtx, uc.callTimeout)
				defer cancel()

				var embedErr error
				embeddings, embedErr = uc.llmClient.GenerateEmbedding(callCtx, model.EmbeddingDimension, batch)
				return embedErr
			}, uc.retryOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to embed batch", goerr.V("offset", start))
			}
			if len(embeddings) != len(batch) {
				return goerr.New("embedding count mismatch",
					goerr.V("expected", len(batch)),
					goerr.V("actual", len(embeddings)),
				)
			}

			for i, e := range embeddings {
				vec := make([]float32, len(e))
				for j, v := range e {
					vec[j] = float32(v)
				}
				vectors[start+i] = vec
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
