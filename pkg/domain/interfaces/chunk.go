package interfaces

import (
	"context"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/domain/types"
)

// ChunkRepository defines the interface for chunk persistence and nearest
// neighbor retrieval.
type ChunkRepository interface {
	// Create persists a single chunk produced by ingestion.
	Create(ctx context.Context, chunk *model.Chunk) (*model.Chunk, error)

	// ListByDocumentID retrieves all chunks of a document ordered by Index.
	ListByDocumentID(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, docID types.DocumentID) ([]*model.Chunk, error)

	// DeleteByDocumentID removes all chunks of a document.
	DeleteByDocumentID(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, docID types.DocumentID) error

	// MatchChunks performs nearest neighbor search over the user's knowledge
	// base with a cosine similarity threshold. Results are scored, ordered by
	// similarity descending and capped at limit.
	MatchChunks(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, embedding []float32, threshold float64, limit int) ([]model.ScoredChunk, error)
}
