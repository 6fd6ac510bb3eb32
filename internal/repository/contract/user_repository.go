package contract

import (
	"context"

	"legal-copilot-be/internal/entity"
	"legal-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindDepartment(ctx context.Context, id uuid.UUID) (*entity.Department, error)
}
