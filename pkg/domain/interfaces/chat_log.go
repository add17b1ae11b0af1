package interfaces

import (
	"context"

	"github.com/draftmill/inkbase/pkg/domain/model"
	"github.com/draftmill/inkbase/pkg/domain/types"
)

// ChatLogRepository defines the interface for chat audit log persistence.
type ChatLogRepository interface {
	Create(ctx context.Context, log *model.ChatLog) (*model.ChatLog, error)
	ListByUser(ctx context.Context, userID types.UserID, limit int) ([]*model.ChatLog, error)
}
