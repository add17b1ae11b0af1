package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/domain/types"
)

type documentRepository struct {
	mu   sync.RWMutex
	docs map[types.DocumentID]*model.Document
}

func newDocumentRepository() *documentRepository {
	return &documentRepository{
		docs: make(map[types.DocumentID]*model.Document),
	}
}

func copyDocument(d *model.Document) *model.Document {
	copied := *d
	return &copied
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if doc.ID == "" {
		doc.ID = model.NewDocumentID()
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	r.docs[doc.ID] = copyDocument(doc)
	return doc, nil
}

func (r *documentRepository) Get(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, id types.DocumentID) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok || doc.UserID != userID || doc.KnowledgeBaseID != kbID {
		return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
	}

	return copyDocument(doc), nil
}

func (r *documentRepository) ListByKnowledgeBase(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var docs []*model.Document
	for _, d := range r.docs {
		if d.UserID == userID && d.KnowledgeBaseID == kbID {
			docs = append(docs, copyDocument(d))
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})

	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, userID types.UserID, kbID types.KnowledgeBaseID, id types.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok || doc.UserID != userID || doc.KnowledgeBaseID != kbID {
		return goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
	}

	delete(r.docs, id)
	return nil
}
