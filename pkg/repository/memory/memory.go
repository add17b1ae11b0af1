package memory

import (
	"github.com/draftmill/inkbase/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	chunk   *chunkRepository
	doc     *documentRepository
	kb      *knowledgeBaseRepository
	chatLog *chatLogRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		chunk:   newChunkRepository(),
		doc:     newDocumentRepository(),
		kb:      newKnowledgeBaseRepository(),
		chatLog: newChatLogRepository(),
	}
}

func (m *Memory) Chunk() interfaces.ChunkRepository {
	return m.chunk
}

func (m *Memory) Document() interfaces.DocumentRepository {
	return m.doc
}

func (m *Memory) KnowledgeBase() interfaces.KnowledgeBaseRepository {
	return m.kb
}

func (m *Memory) ChatLog() interfaces.ChatLogRepository {
	return m.chatLog
}

func (m *Memory) Close() error {
	return nil
}
