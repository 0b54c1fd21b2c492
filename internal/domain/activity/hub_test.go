package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	r := gin.New()
	NewHandler(hub, nil).RegisterRoutes(r.Group("/api/v1"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/activity"
}

func dial(t *testing.T, hub *Hub, url string, want int) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return hub.Connections() == want }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestHub_FanOutToAllSubscribers(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, hub, url, 1)
	b := dial(t, hub, url, 2)

	hub.Listen(context.Background(), NewEvent(JobCompleted, "job", 5, 5, time.Now(), map[string]any{"status": "Completed"}))

	for _, conn := range []*websocket.Conn{a, b} {
		var evt Event
		readJSON(t, conn, &evt)
		assert.Equal(t, JobCompleted, evt.Type)
		require.NotNil(t, evt.JobID)
		assert.Equal(t, int64(5), *evt.JobID)
	}
}

func TestHub_TopicFiltering(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url+"?topics=job:1", 1)

	hub.Listen(context.Background(), NewEvent(TaskAdded, "task", 10, 2, time.Now(), nil))
	hub.Listen(context.Background(), NewEvent(TaskAdded, "task", 11, 1, time.Now(), nil))

	var evt Event
	readJSON(t, conn, &evt)
	assert.Equal(t, int64(11), evt.EntityID)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "subscribe", Topic: "job:2"}))
	var ack controlMessage
	readJSON(t, conn, &ack)
	assert.Equal(t, "subscribed", ack.Type)

	hub.Listen(context.Background(), NewEvent(TaskToggled, "task", 10, 2, time.Now(), nil))
	readJSON(t, conn, &evt)
	assert.Equal(t, TaskToggled, evt.Type)
	assert.Equal(t, int64(10), evt.EntityID)
}

func TestHub_RejectsUnknownTopic(t *testing.T) {
	hub, url := startHub(t)
	_, resp, err := websocket.DefaultDialer.Dial(url+"?topics=quote:1", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, hub.Connections())

	conn := dial(t, hub, url, 1)
	require.NoError(t, conn.WriteJSON(clientMessage{Type: "subscribe", Topic: "nope"}))
	var ack controlMessage
	readJSON(t, conn, &ack)
	assert.Equal(t, "error", ack.Type)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url, 1)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Connections() == 0 }, 2*time.Second, 10*time.Millisecond)
}
