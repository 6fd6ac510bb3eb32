package contract

import (
	"context"

	"legal-copilot-be/internal/entity"
)

type AnalyticsEventRepository interface {
	Create(ctx context.Context, event *entity.AnalyticsEvent) error
}
