package unitofwork

import (
	"context"

	"legal-copilot-be/internal/repository/contract"
)

// UnitOfWork scopes repository access. Begin/Commit wrap multi-write
// operations (session deletion); single stage-record writes go through the
// repositories directly, each one an independent atomic write.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	StageMessageRepository() contract.StageMessageRepository
	AnalyticsEventRepository() contract.AnalyticsEventRepository
}
