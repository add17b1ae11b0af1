package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/draftmill/inkbase/pkg/domain/types"
)

// NewDocumentID generates a new UUID v4 DocumentID.
func NewDocumentID() types.DocumentID {
	return types.DocumentID(uuid.New().String())
}

// NewKnowledgeBaseID generates a new UUID v4 KnowledgeBaseID.
func NewKnowledgeBaseID() types.KnowledgeBaseID {
	return types.KnowledgeBaseID(uuid.New().String())
}

// Document is an ingested source document. The chunk store keeps its split
// and embedded slices separately; Content preserves the full extracted text.
type Document struct {
	ID              types.DocumentID
	KnowledgeBaseID types.KnowledgeBaseID
	UserID          types.UserID
	Name            string
	FileName        string
	Content         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// KnowledgeBase is a named, user-owned collection of documents and their
// chunk embeddings.
type KnowledgeBase struct {
	ID        types.KnowledgeBaseID
	UserID    types.UserID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
