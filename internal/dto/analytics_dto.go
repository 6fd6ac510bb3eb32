package dto

import "github.com/google/uuid"

// PublishAnalyticsMessage is the payload flowing over the in-process
// analytics topic, consumed asynchronously off the request path.
type PublishAnalyticsMessage struct {
	UserId    uuid.UUID              `json:"user_id"`
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload"`
}
