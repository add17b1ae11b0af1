package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/domain/types"
)

type chunkRepository struct {
	mu     sync.RWMutex
	chunks map[model.ChunkID]*model.Chunk
}

func newChunkRepository() *chunkRepository {
	return &chunkRepository{
		chunks: make(map[model.ChunkID]*model.Chunk),
	}
}

// copyChunk creates a deep copy of a chunk
func copyChunk(c *model.Chunk) *model.Chunk {
	copied := &model.Chunk{
		ID:              c.ID,
		DocumentID:      c.DocumentID,
		KnowledgeBaseID: c.KnowledgeBaseID,
		UserID:          c.UserID,
		Index:           c.Index,
		Text:            c.Text,
		CreatedAt:       c.CreatedAt,
	}
	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}
	return copied
}

func (r *chunkRepository) Create(ctx context.Context, chunk *model.Chunk) (*model.Chunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chunk.ID == "" {
		chunk.ID = model.NewChunkID()
	}
	chunk.CreatedAt = time.Now().UTC()

	r.chunks[chunk.ID] = copyChunk(chunk)
	return chunk, nil
}

func (r *chunkRepository) ListByDocumentID(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, docID types.DocumentID) ([]*model.Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var chunks []*model.Chunk
	for _, c := range r.chunks {
		if c.UserID == userID && c.KnowledgeBaseID == kbID && c.DocumentID == docID {
			chunks = append(chunks, copyChunk(c))
		}
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})

	return chunks, nil
}

func (r *chunkRepository) DeleteByDocumentID(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, docID types.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.chunks {
		if c.UserID == userID && c.KnowledgeBaseID == kbID && c.DocumentID == docID {
			delete(r.chunks, id)
		}
	}

	return nil
}

func (r *chunkRepository) MatchChunks(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, embedding []float32, threshold float64, limit int) ([]model.ScoredChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]model.ScoredChunk, 0, limit)
	for _, c := range r.chunks {
		if c.UserID != userID || c.KnowledgeBaseID != kbID {
			continue
		}

		score := cosineSimilarity(embedding, c.Embedding)
		if score < threshold {
			continue
		}
		matches = append(matches, model.ScoredChunk{
			Text:       c.Text,
			Similarity: score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// cosineSimilarity calculates cosine similarity between two vectors. Stored
// chunks never carry zero vectors, so the zero-norm guard returns 0 rather
// than NaN here.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
