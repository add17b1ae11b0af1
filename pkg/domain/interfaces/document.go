package interfaces

import (
	"context"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/domain/types"
)

// DocumentRepository defines the interface for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)
	Get(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, id types.DocumentID) (*model.Document, error)
	ListByKnowledgeBase(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID) ([]*model.Document, error)
	Delete(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, id types.DocumentID) error
}

// KnowledgeBaseRepository defines the interface for knowledge base persistence.
type KnowledgeBaseRepository interface {
	Create(ctx context.Context, kb *model.KnowledgeBase) (*model.KnowledgeBase, error)
	Get(ctx context.Context, userID types.UserID, id types.KnowledgeBaseID) (*model.KnowledgeBase, error)
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.KnowledgeBase, error)
	Delete(ctx context.Context, userID types.UserID, id types.KnowledgeBaseID) error
}
