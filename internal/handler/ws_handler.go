package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/semiologia/semiologia-api/internal/websocket"
	"github.com/semiologia/semiologia-api/pkg/auth"
)

// WSHandler upgrades the notification socket. Authentication uses a
// short-lived ticket in the query string because browsers cannot set
// headers on a WebSocket handshake.
type WSHandler struct {
	hub        *websocket.Hub
	jwtService *auth.JWTService
	upgrader   gorillaws.Upgrader
}

// NewWSHandler creates a new WebSocket handler.
func NewWSHandler(hub *websocket.Hub, jwtService *auth.JWTService, allowedOrigins []string) *WSHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = struct{}{}
	}

	return &WSHandler{
		hub:        hub,
		jwtService: jwtService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true // non-browser client
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Connect handles GET /ws?ticket=...
func (h *WSHandler) Connect(c *gin.Context) {
	ticket := c.Query("ticket")
	if ticket == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing ticket"})
		return
	}

	claims, err := h.jwtService.ParseWSTicket(ticket)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ticket"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("[WSHandler] upgrade failed for user=%s: %v", claims.UserID, err)
		return
	}

	client := websocket.NewClient(h.hub, conn, claims.UserID)
	go client.Run()
}
