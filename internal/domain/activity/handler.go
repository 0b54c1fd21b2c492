package activity

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"landscaping/internal/pkg/response"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler builds the websocket endpoint. An empty allowedOrigins accepts any origin.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws/activity", h.Stream)
}

// Stream handles GET /api/v1/ws/activity?topics=job:1,job:2
func (h *Handler) Stream(c *gin.Context) {
	var topics []string
	for _, t := range strings.Split(c.Query("topics"), ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !ValidTopic(t) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "unknown topic: "+t)
			return
		}
		topics = append(topics, t)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("activity websocket upgrade failed: %v", err)
		return
	}
	h.hub.ServeWS(conn, topics)
}
