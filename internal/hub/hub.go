package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"ctchen222/LLM-Arena/internal/events"
)

var tracer = otel.Tracer("hub")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	clientSendBuffer = 64
)

// Client is one spectator websocket connection.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans game events out to every connected spectator. Spectators are
// read-only; anything they send is discarded.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	// done is closed when Run exits, so pumps never block on a hub that
	// stopped receiving.
	done chan struct{}
}

// NewHub creates an empty spectator hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			slog.InfoContext(ctx, "spectator connected", "spectators", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
				slog.InfoContext(ctx, "spectator disconnected", "spectators", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish broadcasts an event to all connected spectators. It satisfies
// match.Publisher, so a runner can feed the hub directly without Redis.
func (h *Hub) Publish(_ context.Context, event events.Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.broadcast <- raw
	return nil
}

// ServeWS registers conn as a spectator and starts its pumps. It returns
// immediately; the connection is cleaned up when the peer goes away.
func (h *Hub) ServeWS(conn *websocket.Conn) {
	client := &Client{
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

// dropClient unregisters c, or returns immediately if the hub has stopped.
func (h *Hub) dropClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// readPump drains the connection so pongs are processed and a close from
// the peer unregisters the client.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.dropClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
