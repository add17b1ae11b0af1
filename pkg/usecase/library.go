package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/domain/types"
)

// ListKnowledgeBases returns the knowledge bases owned by a user.
func (uc *UseCases) ListKnowledgeBases(ctx context.Context, userID types.UserID) ([]*model.KnowledgeBase, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidRequest, err.Error())
	}

	kbs, err := uc.repo.KnowledgeBase().ListByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list knowledge bases", goerr.V("user_id", userID))
	}
	return kbs, nil
}

// CreateKnowledgeBase creates a new named knowledge base for a user.
func (uc *UseCases) CreateKnowledgeBase(ctx context.Context, userID types.UserID, name string) (*model.KnowledgeBase, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidRequest, err.Error())
	}
	if name == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "knowledge base name cannot be empty")
	}

	kb, err := uc.repo.KnowledgeBase().Create(ctx, &model.KnowledgeBase{
		ID:     model.NewKnowledgeBaseID(),
		UserID: userID,
		Name:   name,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create knowledge base", goerr.V("user_id", userID))
	}
	return kb, nil
}

// ListDocuments returns the documents stored in one knowledge base.
func (uc *UseCases) ListDocuments(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID) ([]*model.Document, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidRequest, err.Error())
	}
	if err := kbID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidRequest, err.Error())
	}

	docs, err := uc.repo.Document().ListByKnowledgeBase(ctx, userID, kbID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents",
			goerr.V("user_id", userID),
			goerr.V("kb_id", kbID),
		)
	}
	return docs, nil
}
