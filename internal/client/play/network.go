// Package play connects the desktop client to a game: it turns clicks
// into engine actions and submits them to a local session or a server.
package play

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hansa-teutonica/internal/logs"
	"hansa-teutonica/internal/protocol"
	"hansa-teutonica/pkg/maps"
)

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 1 << 20
)

// NetworkClient handles WebSocket communication with the server.
type NetworkClient struct {
	conn     *websocket.Conn
	sendChan chan *protocol.Message
	done     chan struct{}
	mu       sync.Mutex

	// Callbacks run on the read goroutine.
	OnMessage    func(*protocol.Message)
	OnDisconnect func(error)

	connected bool
}

// NewNetworkClient creates a new network client.
func NewNetworkClient() *NetworkClient {
	return &NetworkClient{
		sendChan: make(chan *protocol.Message, 64),
		done:     make(chan struct{}),
	}
}

// dialURL turns a configured server address into a websocket URL.
// Bare host:port addresses get ws:// and the /ws path.
func dialURL(addr string) string {
	addr = strings.TrimSpace(addr)
	switch {
	case strings.HasPrefix(addr, "http://"):
		addr = "ws://" + strings.TrimPrefix(addr, "http://")
	case strings.HasPrefix(addr, "https://"):
		addr = "wss://" + strings.TrimPrefix(addr, "https://")
	case !strings.HasPrefix(addr, "ws://") && !strings.HasPrefix(addr, "wss://"):
		addr = "ws://" + addr
	}
	rest := addr[strings.Index(addr, "://")+3:]
	if !strings.Contains(rest, "/") {
		addr += "/ws"
	}
	return addr
}

// Connect establishes a connection to the server.
func (c *NetworkClient) Connect(ctx context.Context, serverAddr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := dialURL(serverAddr)
	logs.Info("connecting", zap.String("url", target))

	dctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dctx, target, nil)
	if err != nil {
		return errors.Wrapf(err, "dial %s", target)
	}

	c.conn = conn
	c.connected = true
	c.done = make(chan struct{})

	go c.readPump(conn)
	go c.writePump(conn)
	return nil
}

// Disconnect closes the connection.
func (c *NetworkClient) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return
	}
	c.connected = false
	close(c.done)

	if c.conn != nil {
		c.conn.Close(websocket.StatusNormalClosure, "")
		c.conn = nil
	}
}

// IsConnected returns true if connected to server.
func (c *NetworkClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Send queues a message to be sent to the server.
func (c *NetworkClient) Send(msg *protocol.Message) {
	select {
	case c.sendChan <- msg:
	default:
		logs.Warn("send queue full, message dropped", zap.String("type", string(msg.Type)))
	}
}

// SendPayload creates and sends a message with the given type and payload.
func (c *NetworkClient) SendPayload(msgType protocol.MessageType, payload any) error {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	c.Send(msg)
	return nil
}

func (c *NetworkClient) readPump(conn *websocket.Conn) {
	var readErr error
	defer func() {
		c.mu.Lock()
		wasConnected := c.connected
		c.connected = false
		c.mu.Unlock()

		if wasConnected && c.OnDisconnect != nil {
			c.OnDisconnect(readErr)
		}
	}()

	conn.SetReadLimit(readLimit)

	for {
		// No deadline: the write pump's pings detect a dead peer.
		msgType, data, err := conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				readErr = err
				logs.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logs.Warn("undecodable message", zap.Error(err))
			continue
		}
		if c.OnMessage != nil {
			c.OnMessage(&msg)
		}
	}
}

func (c *NetworkClient) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case msg := <-c.sendChan:
			data, err := json.Marshal(msg)
			if err != nil {
				logs.Error("failed to marshal message", zap.Error(err))
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err = conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logs.Warn("websocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// apiURL returns the HTTP base of the server behind addr.
func apiURL(addr string) (string, error) {
	u, err := url.Parse(dialURL(addr))
	if err != nil {
		return "", errors.Wrapf(err, "parse %s", addr)
	}
	switch u.Scheme {
	case "wss":
		u.Scheme = "https"
	default:
		u.Scheme = "http"
	}
	u.Path = ""
	return u.String(), nil
}

// RemoteMap asks the server which map gameID is played on.
func RemoteMap(ctx context.Context, addr, gameID string) (*maps.Map, error) {
	base, err := apiURL(addr)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/games/"+url.PathEscape(gameID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch game")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch game %s: %s", gameID, resp.Status)
	}

	var info struct {
		MapID string `json:"map_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "decode game")
	}
	m := maps.Get(info.MapID)
	if m == nil {
		return nil, errors.Errorf("server plays unknown map %q", info.MapID)
	}
	return m, nil
}
