package mapper

import (
	"encoding/json"
	"time"

	"legal-copilot-be/internal/entity"
	"legal-copilot-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}
	var jurisdiction *entity.Jurisdiction
	if len(s.Jurisdiction) > 0 {
		var j entity.Jurisdiction
		if err := json.Unmarshal(s.Jurisdiction, &j); err == nil && j.State != "" {
			jurisdiction = &j
		}
	}
	return &entity.ChatSession{
		Id:           s.Id,
		UserId:       s.UserId,
		Title:        s.Title,
		Jurisdiction: jurisdiction,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    nilIfZero(s.UpdatedAt),
	}
}

func (m *ChatMapper) SessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}
	var jurisdiction datatypes.JSON
	if s.Jurisdiction != nil {
		if data, err := json.Marshal(s.Jurisdiction); err == nil {
			jurisdiction = data
		}
	}
	out := &model.ChatSession{
		Id:           s.Id,
		UserId:       s.UserId,
		Title:        s.Title,
		Jurisdiction: jurisdiction,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
	}
	if s.UpdatedAt != nil {
		out.UpdatedAt = *s.UpdatedAt
	}
	return out
}

func (m *ChatMapper) StageMessageToEntity(msg *model.StageMessage) *entity.StageMessage {
	if msg == nil {
		return nil
	}
	var citations []entity.Citation
	if len(msg.Citations) > 0 {
		_ = json.Unmarshal(msg.Citations, &citations)
	}
	return &entity.StageMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Type:          msg.Type,
		Content:       msg.Content,
		Citations:     citations,
		Confidence:    msg.Confidence,
		ProcessingMs:  msg.ProcessingMs,
		Degraded:      msg.Degraded,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) StageMessageToModel(msg *entity.StageMessage) *model.StageMessage {
	if msg == nil {
		return nil
	}
	var citations datatypes.JSON
	if msg.Citations != nil {
		if data, err := json.Marshal(msg.Citations); err == nil {
			citations = data
		}
	}
	return &model.StageMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Type:          msg.Type,
		Content:       msg.Content,
		Citations:     citations,
		Confidence:    msg.Confidence,
		ProcessingMs:  msg.ProcessingMs,
		Degraded:      msg.Degraded,
		CreatedAt:     msg.CreatedAt,
	}
}

func nilIfZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
