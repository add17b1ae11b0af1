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

type chatLogDoc struct {
	ID              model.ChatLogID       `firestore:"ID"`
	UserID          types.UserID          `firestore:"UserID"`
	KnowledgeBaseID types.KnowledgeBaseID `firestore:"KnowledgeBaseID"`
	Query           string                `firestore:"Query"`
	Answer          string                `firestore:"Answer"`
	UsedWebSearch   bool                  `firestore:"UsedWebSearch"`
	ChunkCount      int                   `firestore:"ChunkCount"`
	CreatedAt       time.Time             `firestore:"CreatedAt"`
}

type chatLogRepository struct {
	client *firestore.Client
}

func newChatLogRepository(client *firestore.Client) *chatLogRepository {
	return &chatLogRepository{
		client: client,
	}
}

func (r *chatLogRepository) chatLogsCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(string(userID)).Collection("chat_logs")
}

func (r *chatLogRepository) Create(ctx context.Context, log *model.ChatLog) (*model.ChatLog, error) {
	if log.ID == "" {
		log.ID = model.NewChatLogID()
	}
	log.CreatedAt = time.Now().UTC()

	doc := &chatLogDoc{
		ID:              log.ID,
		UserID:          log.UserID,
		KnowledgeBaseID: log.KnowledgeBaseID,
		Query:           log.Query,
		Answer:          log.Answer,
		UsedWebSearch:   log.UsedWebSearch,
		ChunkCount:      log.ChunkCount,
		CreatedAt:       log.CreatedAt,
	}
	if _, err := r.chatLogsCollection(log.UserID).Doc(string(log.ID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create chat log", goerr.V("id", log.ID))
	}

	return log, nil
}

func (r *chatLogRepository) ListByUser(ctx context.Context, userID types.UserID, limit int) ([]*model.ChatLog, error) {
	q := r.chatLogsCollection(userID).OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var logs []*model.ChatLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chat logs", goerr.V("userID", userID))
		}

		var d chatLogDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chat log")
		}
		logs = append(logs, &model.ChatLog{
			ID:              d.ID,
			UserID:          d.UserID,
			KnowledgeBaseID: d.KnowledgeBaseID,
			Query:           d.Query,
			Answer:          d.Answer,
			UsedWebSearch:   d.UsedWebSearch,
			ChunkCount:      d.ChunkCount,
			CreatedAt:       d.CreatedAt,
		})
	}

	return logs, nil
}
