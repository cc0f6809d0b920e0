package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctchen222/LLM-Arena/internal/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		h.ServeWS(conn)
	}))
	t.Cleanup(srv.Close)

	return h, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastsToSpectators(t *testing.T) {
	h, srv := startHub(t)

	conn1 := dial(t, srv)
	conn2 := dial(t, srv)
	time.Sleep(50 * time.Millisecond) // let registrations land

	event, err := events.New(events.TypeGameStarted, events.GameStartedPayload{
		GameID: "game-1", AgentX: "A", AgentO: "B",
	})
	require.NoError(t, err)
	require.NoError(t, h.Publish(context.Background(), event))

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var got events.Event
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, events.TypeGameStarted, got.Type)

		var payload events.GameStartedPayload
		require.NoError(t, json.Unmarshal(got.Payload, &payload))
		assert.Equal(t, "game-1", payload.GameID)
	}
}

func TestHub_DropClientAfterShutdownDoesNotBlock(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	cancel()
	select {
	case <-h.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not shut down")
	}

	finished := make(chan struct{})
	go func() {
		h.dropClient(&Client{send: make(chan []byte, 1)})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("dropClient blocked after hub shutdown")
	}
}

func TestHub_DisconnectedSpectatorIsRemoved(t *testing.T) {
	h, srv := startHub(t)

	conn := dial(t, srv)
	time.Sleep(50 * time.Millisecond)
	conn.Close()
	time.Sleep(50 * time.Millisecond)

	// Publishing after the disconnect must not block or panic.
	event, err := events.New(events.TypeGameFinished, events.GameFinishedPayload{GameID: "game-1"})
	require.NoError(t, err)
	require.NoError(t, h.Publish(context.Background(), event))
}
