package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"hansa-teutonica/internal/game"
	"hansa-teutonica/internal/logs"
	"hansa-teutonica/internal/protocol"
)

// Hub tracks connected clients and the game each one has joined.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]bool
	gameClients map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		gameClients: make(map[string]map[*Client]bool),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

// Unregister removes a client and closes its send queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if clients, ok := h.gameClients[c.GameID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.gameClients, c.GameID)
		}
	}
	close(c.send)
}

// Join moves a client into a game's broadcast group.
func (h *Hub) Join(c *Client, gameID string, seat game.PlayerID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.gameClients[c.GameID]; ok {
		delete(clients, c)
	}
	if h.gameClients[gameID] == nil {
		h.gameClients[gameID] = make(map[*Client]bool)
	}
	h.gameClients[gameID][c] = true
	c.GameID = gameID
	c.Seat = seat
}

// Broadcast sends msg to every client in a game.
func (h *Hub) Broadcast(gameID string, msg *protocol.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.gameClients[gameID] {
		c.Send(msg)
	}
}

// ClientCount returns the number of clients in a game.
func (h *Hub) ClientCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.gameClients[gameID])
}

// Client represents a connected WebSocket client.
type Client struct {
	conn *websocket.Conn
	send chan *protocol.Message

	GameID string
	Seat   game.PlayerID
	Name   string
}

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
)

// NewClient creates a new client.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan *protocol.Message, 64),
		Seat: game.NoPlayer,
	}
}

// Send queues a message; a client too slow to drain its queue misses it.
func (c *Client) Send(msg *protocol.Message) {
	select {
	case c.send <- msg:
	default:
		logs.Warn("client send queue full, message dropped", zap.String("game", c.GameID), zap.String("type", string(msg.Type)))
	}
}

// ReadPump reads messages until the connection closes and hands each one
// to handle.
func (c *Client) ReadPump(ctx context.Context, handle func(*Client, *protocol.Message)) {
	c.conn.SetReadLimit(maxMessageSize)
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				logs.Debug("websocket read ended", zap.Error(err))
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logs.Info("invalid message", zap.Error(err))
			c.sendError(protocol.ErrCodeBadMessage, "invalid message envelope")
			continue
		}
		handle(c, &msg)
	}
}

// WritePump writes queued messages and pings the peer every interval.
// It returns when the queue is closed or a write fails.
func (c *Client) WritePump(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-c.send:
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logs.Error("failed to marshal message", zap.Error(err))
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err = c.conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logs.Debug("websocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (c *Client) sendError(code protocol.ErrorCode, message string) {
	msg, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	c.Send(msg)
}
