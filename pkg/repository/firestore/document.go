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

type documentDoc struct {
	ID              types.DocumentID      `firestore:"ID"`
	KnowledgeBaseID types.KnowledgeBaseID `firestore:"KnowledgeBaseID"`
	UserID          types.UserID          `firestore:"UserID"`
	Name            string                `firestore:"Name"`
	FileName        string                `firestore:"FileName"`
	Content         string                `firestore:"Content"`
	CreatedAt       time.Time             `firestore:"CreatedAt"`
	UpdatedAt       time.Time             `firestore:"UpdatedAt"`
}

func toDocumentDoc(d *model.Document) *documentDoc {
	return &documentDoc{
		ID:              d.ID,
		KnowledgeBaseID: d.KnowledgeBaseID,
		UserID:          d.UserID,
		Name:            d.Name,
		FileName:        d.FileName,
		Content:         d.Content,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func fromDocumentDoc(d *documentDoc) *model.Document {
	return &model.Document{
		ID:              d.ID,
		KnowledgeBaseID: d.KnowledgeBaseID,
		UserID:          d.UserID,
		Name:            d.Name,
		FileName:        d.FileName,
		Content:         d.Content,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type documentRepository struct {
	client *firestore.Client
}

func newDocumentRepository(client *firestore.Client) *documentRepository {
	return &documentRepository{
		client: client,
	}
}

func (r *documentRepository) documentsCollection(userID types.UserID, kbID types.KnowledgeBaseID) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(string(userID)).
		Collection("knowledge_bases").Doc(string(kbID)).
		Collection("documents")
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	now := time.Now().UTC()
	if doc.ID == "" {
		doc.ID = model.NewDocumentID()
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	docRef := r.documentsCollection(doc.UserID, doc.KnowledgeBaseID).Doc(string(doc.ID))
	if _, err := docRef.Set(ctx, toDocumentDoc(doc)); err != nil {
		return nil, goerr.Wrap(err, "failed to create document", goerr.V("id", doc.ID))
	}

	return doc, nil
}

func (r *documentRepository) Get(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, id types.DocumentID) (*model.Document, error) {
	doc, err := r.documentsCollection(userID, kbID).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	var d documentDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("id", id))
	}

	return fromDocumentDoc(&d), nil
}

func (r *documentRepository) ListByKnowledgeBase(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID) ([]*model.Document, error) {
	iter := r.documentsCollection(userID, kbID).
		OrderBy("CreatedAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var docs []*model.Document
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents", goerr.V("kbID", kbID))
		}

		var d documentDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document")
		}
		docs = append(docs, fromDocumentDoc(&d))
	}

	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, id types.DocumentID) error {
	docRef := r.documentsCollection(userID, kbID).Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V("id", id))
	}

	return nil
}
