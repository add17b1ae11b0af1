package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/domain/types"
)

type knowledgeBaseDoc struct {
	ID        types.KnowledgeBaseID `firestore:"ID"`
	UserID    types.UserID          `firestore:"UserID"`
	Name      string                `firestore:"Name"`
	CreatedAt time.Time             `firestore:"CreatedAt"`
	UpdatedAt time.Time             `firestore:"UpdatedAt"`
}

type knowledgeBaseRepository struct {
	client *firestore.Client
}

func newKnowledgeBaseRepository(client *firestore.Client) *knowledgeBaseRepository {
	return &knowledgeBaseRepository{
		client: client,
	}
}

func (r *knowledgeBaseRepository) kbCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(string(userID)).Collection("knowledge_bases")
}

func (r *knowledgeBaseRepository) Create(ctx context.Context, kb *model.KnowledgeBase) (*model.KnowledgeBase, error) {
	now := time.Now().UTC()
	if kb.ID == "" {
		kb.ID = model.NewKnowledgeBaseID()
	}
	kb.CreatedAt = now
	kb.UpdatedAt = now

	doc := &knowledgeBaseDoc{
		ID:        kb.ID,
		UserID:    kb.UserID,
		Name:      kb.Name,
		CreatedAt: kb.CreatedAt,
		UpdatedAt: kb.UpdatedAt,
	}
	if _, err := r.kbCollection(kb.UserID).Doc(string(kb.ID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create knowledge base", goerr.V("id", kb.ID))
	}

	return kb, nil
}

func (r *knowledgeBaseRepository) Get(ctx context.Context, userID types.UserID, id types.KnowledgeBaseID) (*model.KnowledgeBase, error) {
	doc, err := r.kbCollection(userID).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "knowledge base not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get knowledge base", goerr.V("id", id))
	}

	var d knowledgeBaseDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal knowledge base", goerr.V("id", id))
	}

	return &model.KnowledgeBase{
		ID:        d.ID,
		UserID:    d.UserID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (r *knowledgeBaseRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.KnowledgeBase, error) {
	iter := r.kbCollection(userID).OrderBy("CreatedAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var kbs []*model.KnowledgeBase
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate knowledge bases", goerr.V("userID", userID))
		}

		var d knowledgeBaseDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal knowledge base")
		}
		kbs = append(kbs, &model.KnowledgeBase{
			ID:        d.ID,
			UserID:    d.UserID,
			Name:      d.Name,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}

	return kbs, nil
}

func (r *knowledgeBaseRepository) Delete(ctx context.Context, userID types.UserID, id types.KnowledgeBaseID) error {
	docRef := r.kbCollection(userID).Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "knowledge base not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get knowledge base", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete knowledge base", goerr.V("id", id))
	}

	return nil
}
