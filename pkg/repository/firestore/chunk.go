package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/domain/types"
)

// chunkDoc is the Firestore document representation of model.Chunk.
// Embedding is stored as firestore.Vector32 so that FindNearest vector
// search works.
type chunkDoc struct {
	ID              model.ChunkID         `firestore:"ID"`
	DocumentID      types.DocumentID      `firestore:"DocumentID"`
	KnowledgeBaseID types.KnowledgeBaseID `firestore:"KnowledgeBaseID"`
	UserID          types.UserID          `firestore:"UserID"`
	Index           int                   `firestore:"Index"`
	Text            string                `firestore:"Text"`
	Embedding       firestore.Vector32    `firestore:"Embedding,omitempty"`
	CreatedAt       time.Time             `firestore:"CreatedAt"`
}

func toChunkDoc(c *model.Chunk) *chunkDoc {
	doc := &chunkDoc{
		ID:              c.ID,
		DocumentID:      c.DocumentID,
		KnowledgeBaseID: c.KnowledgeBaseID,
		UserID:          c.UserID,
		Index:           c.Index,
		Text:            c.Text,
		CreatedAt:       c.CreatedAt,
	}
	if len(c.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(c.Embedding)
	}
	return doc
}

func fromChunkDoc(d *chunkDoc) *model.Chunk {
	c := &model.Chunk{
		ID:              d.ID,
		DocumentID:      d.DocumentID,
		KnowledgeBaseID: d.KnowledgeBaseID,
		UserID:          d.UserID,
		Index:           d.Index,
		Text:            d.Text,
		CreatedAt:       d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		c.Embedding = []float32(d.Embedding)
	}
	return c
}

// matchedChunkDoc carries only the fields needed for a vector search result.
// The vector_distance field is populated by Firestore through the
// DistanceResultField option.
type matchedChunkDoc struct {
	Text     string  `firestore:"Text"`
	Distance float64 `firestore:"vector_distance"`
}

type chunkRepository struct {
	client *firestore.Client
}

func newChunkRepository(client *firestore.Client) *chunkRepository {
	return &chunkRepository{
		client: client,
	}
}

func (r *chunkRepository) chunksCollection(userID types.UserID, kbID types.KnowledgeBaseID) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(string(userID)).
		Collection("knowledge_bases").Doc(string(kbID)).
		Collection("chunks")
}

func (r *chunkRepository) Create(ctx context.Context, chunk *model.Chunk) (*model.Chunk, error) {
	if chunk.ID == "" {
		chunk.ID = model.NewChunkID()
	}
	chunk.CreatedAt = time.Now().UTC()

	docRef := r.chunksCollection(chunk.UserID, chunk.KnowledgeBaseID).Doc(string(chunk.ID))
	if _, err := docRef.Set(ctx, toChunkDoc(chunk)); err != nil {
		return nil, goerr.Wrap(err, "failed to create chunk", goerr.V("id", chunk.ID))
	}

	return chunk, nil
}

func (r *chunkRepository) ListByDocumentID(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, docID types.DocumentID) ([]*model.Chunk, error) {
	iter := r.chunksCollection(userID, kbID).
		Where("DocumentID", "==", string(docID)).
		OrderBy("Index", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var chunks []*model.Chunk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chunks", goerr.V("documentID", docID))
		}

		var d chunkDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk", goerr.V("documentID", docID))
		}
		chunks = append(chunks, fromChunkDoc(&d))
	}

	return chunks, nil
}

func (r *chunkRepository) DeleteByDocumentID(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, docID types.DocumentID) error {
	iter := r.chunksCollection(userID, kbID).
		Where("DocumentID", "==", string(docID)).
		Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate chunks for delete", goerr.V("documentID", docID))
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			return goerr.Wrap(err, "failed to schedule chunk delete", goerr.V("documentID", docID))
		}
	}
	bw.End()

	return nil
}

func (r *chunkRepository) MatchChunks(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, embedding []float32, threshold float64, limit int) ([]model.ScoredChunk, error) {
	// Firestore reports cosine distance (1 - similarity), so the similarity
	// threshold converts to a distance ceiling.
	distanceThreshold := 1 - threshold

	vq := r.chunksCollection(userID, kbID).FindNearest(
		"Embedding",
		firestore.Vector32(embedding),
		limit,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{
			DistanceThreshold:   &distanceThreshold,
			DistanceResultField: "vector_distance",
		},
	)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	matches := make([]model.ScoredChunk, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results",
				goerr.V("userID", userID),
				goerr.V("kbID", kbID),
			)
		}

		var d matchedChunkDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal vector search result")
		}

		matches = append(matches, model.ScoredChunk{
			Text:       d.Text,
			Similarity: 1 - d.Distance,
		})
	}

	return matches, nil
}
