package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"legal-copilot-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "session_events"

// Envelope is the frame delivered to subscribers. Event carries the
// event name ("ai-status" or "ai-response"), Data the payload.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type Hub struct {
	// Registered clients map: SessionID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance delivery
	rdb *redis.Client

	// Identifies this process on the shared Redis channel so frames it
	// published itself are not delivered locally a second time.
	instanceID string

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session fully unsubscribed", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Emit delivers an event to every client subscribed to the session.
// A slow subscriber with a full buffer is dropped rather than blocking
// the pipeline.
func (h *Hub) Emit(sessionID uuid.UUID, event string, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal event", map[string]interface{}{"event": event, "error": err.Error()})
		return
	}

	h.deliverLocal(sessionID, payload)

	// Publish for other instances
	if h.rdb != nil {
		frame, _ := json.Marshal(map[string]interface{}{
			"origin":            h.instanceID,
			"target_session_id": sessionID.String(),
			"message":           json.RawMessage(payload),
		})
		h.rdb.Publish(context.Background(), redisChannel, frame)
	}
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, payload []byte) {
	var full []*Client

	// Sends stay under the read lock: they are non-blocking, and the
	// unregister branch closes Send under the write lock, so a send can
	// never hit a closed channel.
	h.mu.RLock()
	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
			full = append(full, client)
		}
	}
	h.mu.RUnlock()

	// The Run loop needs the write lock to unregister, so evictions are
	// queued only after the read lock is released.
	for _, client := range full {
		h.logger.Warn("Hub", "Client Send buffer full, dropping subscriber", map[string]interface{}{"session_id": sessionID})
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared channel and filters on the
	// sessions it holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleRedisFrame([]byte(msg.Payload))
	}
}

// handleRedisFrame delivers a cross-instance frame to local subscribers.
// Frames this instance published itself are skipped: Emit already delivered
// them locally before publishing.
func (h *Hub) handleRedisFrame(payload []byte) {
	var frame struct {
		Origin          string          `json:"origin"`
		TargetSessionID string          `json:"target_session_id"`
		Message         json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		log.Printf("Redis msg parse error: %v", err)
		return
	}

	if frame.Origin == h.instanceID {
		return
	}

	sid, err := uuid.Parse(frame.TargetSessionID)
	if err != nil {
		return
	}

	h.deliverLocal(sid, frame.Message)
}
