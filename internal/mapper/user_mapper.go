package mapper

import (
	"encoding/json"

	"legal-copilot-be/internal/entity"
	"legal-copilot-be/internal/model"

	"gorm.io/datatypes"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         u.Role,
		BadgeNumber:  u.BadgeNumber,
		DepartmentId: u.DepartmentId,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    nilIfZero(u.UpdatedAt),
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	out := &model.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         u.Role,
		BadgeNumber:  u.BadgeNumber,
		DepartmentId: u.DepartmentId,
		CreatedAt:    u.CreatedAt,
	}
	if u.UpdatedAt != nil {
		out.UpdatedAt = *u.UpdatedAt
	}
	return out
}

func (m *UserMapper) DepartmentToEntity(d *model.Department) *entity.Department {
	if d == nil {
		return nil
	}
	var policies map[string]interface{}
	if len(d.Policies) > 0 {
		_ = json.Unmarshal(d.Policies, &policies)
	}
	return &entity.Department{
		Id:           d.Id,
		Name:         d.Name,
		Code:         d.Code,
		State:        d.State,
		Jurisdiction: d.Jurisdiction,
		Policies:     policies,
		CreatedAt:    d.CreatedAt,
	}
}

func (m *UserMapper) DepartmentToModel(d *entity.Department) *model.Department {
	if d == nil {
		return nil
	}
	var policies datatypes.JSON
	if d.Policies != nil {
		if data, err := json.Marshal(d.Policies); err == nil {
			policies = data
		}
	}
	return &model.Department{
		Id:           d.Id,
		Name:         d.Name,
		Code:         d.Code,
		State:        d.State,
		Jurisdiction: d.Jurisdiction,
		Policies:     policies,
		CreatedAt:    d.CreatedAt,
	}
}

func (m *UserMapper) AnalyticsEventToModel(e *entity.AnalyticsEvent) *model.AnalyticsEvent {
	if e == nil {
		return nil
	}
	var payload datatypes.JSON
	if e.Payload != nil {
		if data, err := json.Marshal(e.Payload); err == nil {
			payload = data
		}
	}
	return &model.AnalyticsEvent{
		Id:        e.Id,
		UserId:    e.UserId,
		EventType: e.EventType,
		Payload:   payload,
		CreatedAt: e.CreatedAt,
	}
}
