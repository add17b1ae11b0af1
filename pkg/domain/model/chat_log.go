package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/draftmill/inkbase/pkg/domain/types"
)

// ChatLogID is a UUID-based identifier for a chat log entry.
type ChatLogID string

// NewChatLogID generates a new UUID v4 ChatLogID.
func NewChatLogID() ChatLogID {
	return ChatLogID(uuid.New().String())
}

// ChatLog records one completed pipeline invocation for auditing. It is
// written asynchronously after the response is composed and never blocks
// the request path.
type ChatLog struct {
	ID              ChatLogID
	UserID          types.UserID
	KnowledgeBaseID types.KnowledgeBaseID
	Query           string
	Answer          string
	UsedWebSearch   bool
	ChunkCount      int
	CreatedAt       time.Time
}
