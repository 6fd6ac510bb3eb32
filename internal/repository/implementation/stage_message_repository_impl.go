package implementation

import (
	"context"

	"legal-copilot-be/internal/entity"
	"legal-copilot-be/internal/mapper"
	"legal-copilot-be/internal/model"
	"legal-copilot-be/internal/repository/contract"
	"legal-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StageMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewStageMessageRepository(db *gorm.DB) contract.StageMessageRepository {
	return &StageMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *StageMessageRepositoryImpl) Create(ctx context.Context, message *entity.StageMessage) error {
	m := r.mapper.StageMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.StageMessageToEntity(m)
	return nil
}

func (r *StageMessageRepositoryImpl) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("chat_session_id = ?", sessionId).Delete(&model.StageMessage{}).Error
}

func (r *StageMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StageMessage, error) {
	var models []*model.StageMessage
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.StageMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.StageMessageToEntity(m)
	}
	return entities, nil
}

func (r *StageMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.StageMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
