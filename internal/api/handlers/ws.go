package handlers

import (
	"log"

	ws "go-cloud-drive/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Events upgrades the connection and streams drive events to the user until
// the client disconnects.
func (h *Handler) Events(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := &ws.Client{UserID: currentUserID(c), Conn: conn}
	h.events.RegisterClient(client)

	// Drain control frames; the read loop ends when the peer goes away.
	go func() {
		defer func() {
			h.events.UnregisterClient(client)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
