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

type knowledgeBaseRepository struct {
	mu  sync.RWMutex
	kbs map[types.KnowledgeBaseID]*model.KnowledgeBase
}

func newKnowledgeBaseRepository() *knowledgeBaseRepository {
	return &knowledgeBaseRepository{
		kbs: make(map[types.KnowledgeBaseID]*model.KnowledgeBase),
	}
}

func copyKnowledgeBase(kb *model.KnowledgeBase) *model.KnowledgeBase {
	copied := *kb
	return &copied
}

func (r *knowledgeBaseRepository) Create(ctx context.Context, kb *model.KnowledgeBase) (*model.KnowledgeBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if kb.ID == "" {
		kb.ID = model.NewKnowledgeBaseID()
	}
	kb.CreatedAt = now
	kb.UpdatedAt = now

	r.kbs[kb.ID] = copyKnowledgeBase(kb)
	return kb, nil
}

func (r *knowledgeBaseRepository) Get(ctx context.Context, userID types.UserID, id types.KnowledgeBaseID) (*model.KnowledgeBase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kb, ok := r.kbs[id]
	if !ok || kb.UserID != userID {
		return nil, goerr.Wrap(ErrNotFound, "knowledge base not found", goerr.V("id", id))
	}

	return copyKnowledgeBase(kb), nil
}

func (r *knowledgeBaseRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.KnowledgeBase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var kbs []*model.KnowledgeBase
	for _, kb := range r.kbs {
		if kb.UserID == userID {
			kbs = append(kbs, copyKnowledgeBase(kb))
		}
	}

	sort.Slice(kbs, func(i, j int) bool {
		return kbs[i].CreatedAt.Before(kbs[j].CreatedAt)
	})

	return kbs, nil
}

func (r *knowledgeBaseRepository) Delete(ctx context.Context, userID types.UserID, id types.KnowledgeBaseID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kb, ok := r.kbs[id]
	if !ok || kb.UserID != userID {
		return goerr.Wrap(ErrNotFound, "knowledge base not found", goerr.V("id", id))
	}

	delete(r.kbs, id)
	return nil
}
