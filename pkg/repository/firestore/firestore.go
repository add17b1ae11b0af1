package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/draftmill/inkbase/pkg/domain/interfaces"
)

type Firestore struct {
	client  *firestore.Client
	chunk   *chunkRepository
	doc     *documentRepository
	kb      *knowledgeBaseRepository
	chatLog *chatLogRepository
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	return &Firestore{
		client:  client,
		chunk:   newChunkRepository(client),
		doc:     newDocumentRepository(client),
		kb:      newKnowledgeBaseRepository(client),
		chatLog: newChatLogRepository(client),
	}, nil
}

func (f *Firestore) Chunk() interfaces.ChunkRepository {
	return f.chunk
}

func (f *Firestore) Document() interfaces.DocumentRepository {
	return f.doc
}

func (f *Firestore) KnowledgeBase() interfaces.KnowledgeBaseRepository {
	return f.kb
}

func (f *Firestore) ChatLog() interfaces.ChatLogRepository {
	return f.chatLog
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
