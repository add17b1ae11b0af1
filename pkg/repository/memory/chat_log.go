package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/domain/types"
)

type chatLogRepository struct {
	mu   sync.RWMutex
	logs map[model.ChatLogID]*model.ChatLog
}

func newChatLogRepository() *chatLogRepository {
	return &chatLogRepository{
		logs: make(map[model.ChatLogID]*model.ChatLog),
	}
}

func (r *chatLogRepository) Create(ctx context.Context, log *model.ChatLog) (*model.ChatLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if log.ID == "" {
		log.ID = model.NewChatLogID()
	}
	log.CreatedAt = time.Now().UTC()

	copied := *log
	r.logs[log.ID] = &copied
	return log, nil
}

func (r *chatLogRepository) ListByUser(ctx context.Context, userID types.UserID, limit int) ([]*model.ChatLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var logs []*model.ChatLog
	for _, l := range r.logs {
		if l.UserID == userID {
			copied := *l
			logs = append(logs, &copied)
		}
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}

	return logs, nil
}
