package model

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/draftmill/inkbase/pkg/domain/types"
)

// EmbeddingDimension is the dimension of the embedding vector.
// Gemini text-embedding-004 uses 768 dimensions.
const EmbeddingDimension = 768

// ChunkID is a UUID-based identifier for a persisted chunk.
type ChunkID string

// NewChunkID generates a new UUID v4 ChunkID.
func NewChunkID() ChunkID {
	return ChunkID(uuid.New().String())
}

// Chunk is a bounded slice of a document's text stored with its embedding.
// Chunks are written by the ingestion pipeline and read-only afterwards.
// Text carries the "File: <name>" marker line added at ingestion so that
// downstream source attribution can recover the origin.
type Chunk struct {
	ID              ChunkID
	DocumentID      types.DocumentID
	KnowledgeBaseID types.KnowledgeBaseID
	UserID          types.UserID
	Index           int
	Text            string
	Embedding       []float32
	CreatedAt       time.Time
}

// EphemeralVector is a session-only chunk embedding supplied directly in a
// chat request, e.g. from a just-uploaded file that is not persisted.
type EphemeralVector struct {
	Text      string    `json:"chunk_text"`
	Embedding []float32 `json:"vector"`
}

// ScoredChunk is a retrieval result: chunk text ranked by cosine similarity
// against the query embedding. It lives only for one pipeline invocation.
type ScoredChunk struct {
	Text       string
	Similarity float64
}

// MarshalJSON emits the external wire shape. The similarity field is
// optional on the wire and a NaN score (zero-vector edge case) is not
// representable in JSON, so it is dropped instead.
func (s ScoredChunk) MarshalJSON() ([]byte, error) {
	type wire struct {
		Text       string   `json:"chunk_text"`
		Similarity *float64 `json:"similarity,omitempty"`
	}
	w := wire{Text: s.Text}
	if !math.IsNaN(s.Similarity) {
		w.Similarity = &s.Similarity
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts the wire shape; an absent similarity becomes NaN so
// that such entries sort last.
func (s *ScoredChunk) UnmarshalJSON(data []byte) error {
	var w struct {
		Text       string   `json:"chunk_text"`
		Similarity *float64 `json:"similarity"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.Text = w.Text
	if w.Similarity != nil {
		s.Similarity = *w.Similarity
	} else {
		s.Similarity = math.NaN()
	}
	return nil
}
