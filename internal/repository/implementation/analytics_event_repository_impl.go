package implementation

import (
	"context"

	"legal-copilot-be/internal/entity"
	"legal-copilot-be/internal/mapper"
	"legal-copilot-be/internal/repository/contract"

	"gorm.io/gorm"
)

type AnalyticsEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewAnalyticsEventRepository(db *gorm.DB) contract.AnalyticsEventRepository {
	return &AnalyticsEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *AnalyticsEventRepositoryImpl) Create(ctx context.Context, event *entity.AnalyticsEvent) error {
	m := r.mapper.AnalyticsEventToModel(event)
	return r.db.WithContext(ctx).Create(m).Error
}
