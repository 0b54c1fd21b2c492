package activity

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// clientMessage is what dashboards send to manage their subscriptions.
type clientMessage struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

type controlMessage struct {
	Type  string `json:"type"`
	Topic string `json:"topic,omitempty"`
	Error string `json:"error,omitempty"`
}

// connection is a single dashboard socket.
type connection struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	topics map[string]bool
}

// Hub pushes events to every connected dashboard subscribed to a matching topic.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*connection
}

func NewHub() *Hub {
	return &Hub{connections: make(map[string]*connection)}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c.id] = c
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.connections[c.id]; ok && existing == c {
		delete(h.connections, c.id)
		close(c.send)
	}
}

// Connections returns the number of open sockets.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Listen is the bus listener. A client whose buffer is full is dropped.
func (h *Hub) Listen(_ context.Context, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("activity_hub_marshal_error type=%s error=%v", evt.Type, err)
		return
	}

	var slow []*connection
	h.mu.RLock()
	for _, c := range h.connections {
		if !c.wants(evt) {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Printf("activity_hub_drop conn_id=%s reason=slow_client", c.id)
		h.unregister(c)
	}
}

// caller holds h.mu
func (c *connection) wants(evt Event) bool {
	for topic := range c.topics {
		if evt.Matches(topic) {
			return true
		}
	}
	return false
}

// ServeWS runs the connection until the peer goes away. topics defaults to "*".
func (h *Hub) ServeWS(conn *websocket.Conn, topics []string) {
	if len(topics) == 0 {
		topics = []string{TopicAll}
	}
	c := &connection{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		topics: make(map[string]bool, len(topics)),
	}
	for _, t := range topics {
		c.topics[t] = true
	}

	h.register(c)
	log.Printf("activity_hub_connect conn_id=%s topics=%v", c.id, topics)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		log.Printf("activity_hub_disconnect conn_id=%s", c.id)
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("activity_hub_read_error conn_id=%s error=%v", c.id, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.reply(c, controlMessage{Type: "error", Error: "invalid json"})
			continue
		}

		switch msg.Type {
		case "subscribe":
			if !ValidTopic(msg.Topic) {
				h.reply(c, controlMessage{Type: "error", Topic: msg.Topic, Error: "unknown topic"})
				continue
			}
			h.mu.Lock()
			c.topics[msg.Topic] = true
			h.mu.Unlock()
			h.reply(c, controlMessage{Type: "subscribed", Topic: msg.Topic})
		case "unsubscribe":
			h.mu.Lock()
			delete(c.topics, msg.Topic)
			h.mu.Unlock()
			h.reply(c, controlMessage{Type: "unsubscribed", Topic: msg.Topic})
		default:
			h.reply(c, controlMessage{Type: "error", Error: "unknown message type: " + msg.Type})
		}
	}
}

func (h *Hub) reply(c *connection, msg controlMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.connections[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
