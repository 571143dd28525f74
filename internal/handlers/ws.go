package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/esgboard-dev/esgboard/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	auditClients   = make(map[*websocket.Conn]bool)
	auditClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastAuditEntry pushes a freshly written purchase log entry to every
// connected admin feed.
func BroadcastAuditEntry(entry types.PurchaseLogResponse) {
	auditClientsMu.RLock()
	if len(auditClients) == 0 {
		auditClientsMu.RUnlock()
		return
	}

	clients := make([]*websocket.Conn, 0, len(auditClients))
	for conn := range auditClients {
		clients = append(clients, conn)
	}
	auditClientsMu.RUnlock()

	for _, conn := range clients {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for audit broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]interface{}{
			"type":  "purchase_logged",
			"entry": entry,
		})

		if err != nil {
			log.Printf("Failed to broadcast audit entry: %v", err)
			auditClientsMu.Lock()
			delete(auditClients, conn)
			auditClientsMu.Unlock()
			conn.Close()
		}
	}
}

// AuditFeed upgrades the connection and streams purchase log entries as they
// are recorded. Admin only; the feed is read-only for clients.
func AuditFeed(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	auditClientsMu.Lock()
	auditClients[conn] = true
	auditClientsMu.Unlock()

	defer func() {
		auditClientsMu.Lock()
		delete(auditClients, conn)
		auditClientsMu.Unlock()
		conn.Close()

		log.Printf("Audit feed connection closed")
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "Audit feed connection established",
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for audit feed: %v", err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for audit feed: %v", err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for audit feed: %v", err)
			break
		}

		// Clients do not send anything meaningful; reads only service
		// control frames and detect disconnects.
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Audit feed error: %v", err)
			}
			break
		}
	}
}
