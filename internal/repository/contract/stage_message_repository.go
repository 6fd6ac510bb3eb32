package contract

import (
	"context"

	"legal-copilot-be/internal/entity"
	"legal-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type StageMessageRepository interface {
	// Create is a single independent atomic write; stage records are never
	// written inside a transaction spanning multiple stages.
	Create(ctx context.Context, message *entity.StageMessage) error
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StageMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
