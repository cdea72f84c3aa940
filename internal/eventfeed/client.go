package eventfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mediaspawn/spawner-go/internal/config"
	"github.com/mediaspawn/spawner-go/internal/util"
)

// Client maintains the websocket connection to the external automation
// tool and surfaces its notifications as Events.
type Client struct {
	settings config.EventFeedSettings
	onEvent  func(*Event)
	onStatus func(connected bool)

	conn       *websocket.Conn
	isOpened   bool
	lastStatus *bool
	pending    map[string]chan wsMessage

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	writeMu sync.Mutex
}

func NewClient(settings config.EventFeedSettings, onEvent func(*Event)) *Client {
	return &Client{
		settings: settings,
		onEvent:  onEvent,
		pending:  make(map[string]chan wsMessage),
	}
}

// SetStatusCallback registers a hook invoked on connectivity
// transitions. Must be called before Start.
func (c *Client) SetStatusCallback(onStatus func(connected bool)) {
	c.onStatus = onStatus
}

func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	go c.connectLoop()
}

func (c *Client) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isOpened
}

func (c *Client) connectLoop() {
	delay := time.Duration(c.settings.ReconnectDelaySeconds) * time.Second
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		if err := c.connect(); err != nil {
			slog.Warn("Event feed connection failed", "url", c.settings.URL, "error", err)
		} else {
			c.readLoop()
		}

		c.mu.Lock()
		c.isOpened = false
		c.conn = nil
		c.mu.Unlock()

		c.reportStatus(false)

		select {
		case <-c.ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (c *Client) connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 30 * time.Second,
	}

	conn, _, err := dialer.Dial(c.settings.URL, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.isOpened = true
	c.mu.Unlock()

	go c.pingLoop()

	c.reportStatus(true)

	slog.Info("Event feed connected", "url", c.settings.URL)
	return nil
}

// reportStatus invokes the status callback on transitions only, so a
// string of failed reconnect attempts produces a single notification.
func (c *Client) reportStatus(connected bool) {
	c.mu.Lock()
	changed := c.lastStatus == nil || *c.lastStatus != connected
	c.lastStatus = &connected
	callback := c.onStatus
	c.mu.Unlock()

	if changed && callback != nil {
		callback(connected)
	}
}

func (c *Client) readLoop() {
	for {
		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()
		if conn == nil {
			return
		}

		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			select {
			case <-c.ctx.Done():
			default:
				slog.Warn("Event feed read error", "error", err)
			}
			return
		}

		switch msg.Type {
		case msgPong:
			// Keepalive acknowledged.
		case msgEvent:
			ev, err := parseEvent(msg.Data)
			if err != nil {
				slog.Debug("Dropping malformed event", "error", err)
				continue
			}
			slog.Debug("Event received", "kind", ev.Kind, "user", ev.User)
			if c.onEvent != nil {
				c.onEvent(ev)
			}
		case msgResponse:
			c.resolvePending(msg)
		}
	}
}

func (c *Client) pingLoop() {
	interval := time.Duration(c.settings.PingIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if !c.IsConnected() {
				return
			}
			if err := c.send(wsMessage{Type: msgPing}); err != nil {
				slog.Debug("Event feed ping failed", "error", err)
				return
			}
		}
	}
}

func (c *Client) send(msg wsMessage) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

func (c *Client) resolvePending(msg wsMessage) {
	c.mu.Lock()
	ch, ok := c.pending[msg.Nonce]
	if ok {
		delete(c.pending, msg.Nonce)
	}
	c.mu.Unlock()

	if ok {
		ch <- msg
	}
}

// Commands requests the remote tool's command list, used to populate
// the alias picker in the trigger form.
func (c *Client) Commands(ctx context.Context) ([]Command, error) {
	nonce := util.RandomHex(15)
	ch := make(chan wsMessage, 1)

	c.mu.Lock()
	c.pending[nonce] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, nonce)
		c.mu.Unlock()
	}()

	req := wsMessage{Type: msgRequest, Nonce: nonce, Data: json.RawMessage(`{"request":"commands"}`)}
	if err := c.send(req); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg := <-ch:
		if msg.Error != "" {
			return nil, fmt.Errorf("command list request failed: %s", msg.Error)
		}
		var commands []Command
		if err := json.Unmarshal(msg.Data, &commands); err != nil {
			return nil, fmt.Errorf("decode command list: %w", err)
		}
		return commands, nil
	}
}
