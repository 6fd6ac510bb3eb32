package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs subscribes a websocket connection to a chat session's event
// stream. Blocks until the connection drops.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
