// Package client owns the socket lifecycle for a tracker sync session:
// connect, identity bootstrap, fixed-interval retry, keep-alive, and the
// optimistic mutation API that writes the local store and transmits the
// matching command in one step. Inbound events are decoded here and handed
// to the event queue, which applies them to the store in arrival order.
package client

import (
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/seachart/tracksync/go/internal/queue"
	"github.com/seachart/tracksync/go/internal/store"
	"github.com/seachart/tracksync/go/internal/wire"
)

// DefaultRetryInterval is the fixed delay between reconnect attempts. No
// backoff and no jitter; the client retries forever.
const DefaultRetryInterval = 2 * time.Second

// Status is the connection state.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Conn is the subset of *websocket.Conn the client uses, injectable for
// tests.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// DialFunc opens a connection to the sync server.
type DialFunc func(rawURL string) (Conn, error)

// DialWebSocket is the production dialer.
func DialWebSocket(rawURL string) (Conn, error) {
	dialer := websocket.Dialer{
		Subprotocols:     []string{wire.Subprotocol},
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(rawURL, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Hooks are invoked after an inbound event has been applied, in event
// order, with the snapshot the event produced. They are the UI's window
// into the session.
type Hooks struct {
	OnJoinedRoom func(snapshot *store.Store, data wire.JoinedRoom)
	OnDataSaved  func(snapshot *store.Store, data wire.DataSaved)
	OnRoomUpdate func(data wire.RoomUpdate)
}

// Config carries everything a session needs. Zero fields get defaults from
// New.
type Config struct {
	// ServerURL is the ws:// or wss:// address of the sync server.
	ServerURL string
	// GameID names the room to join or create.
	GameID string
	// PermaID is the permalink/content ID the room is keyed by.
	PermaID string
	// Mode is the room synchronization mode. Defaults to COOP.
	Mode wire.Mode
	// InitialData seeds a brand-new room from saved local progress. Sent
	// only on the very first join of this session, pruned of empty values.
	InitialData *wire.InitialData

	RetryInterval time.Duration
	Session       SessionStore
	Notifier      Notifier
	Hooks         Hooks
	Clock         clockwork.Clock
	Dial          DialFunc
}

// Client is one sync session. Construct with New, start with Connect.
type Client struct {
	cfg      Config
	clock    clockwork.Clock
	dial     DialFunc
	session  SessionStore
	notifier Notifier
	queue    *queue.Queue

	writeMu sync.Mutex

	mu         sync.Mutex
	status     Status
	conn       Conn
	state      *store.Store
	mode       wire.Mode
	userID     string
	roomID     string
	users      map[string]string
	joinedOnce bool
	retryTimer clockwork.Timer
	closed     bool

	notifiedConnecting bool
	notifiedDown       bool
}

// New builds a client from the config. It does not touch the network;
// call Connect to start the session.
func New(cfg Config) *Client {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Session == nil {
		cfg.Session = NewMemorySession()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	if cfg.Dial == nil {
		cfg.Dial = DialWebSocket
	}
	mode := cfg.Mode
	if mode == "" {
		mode = wire.ModeCoop
	}

	return &Client{
		cfg:      cfg,
		clock:    cfg.Clock,
		dial:     cfg.Dial,
		session:  cfg.Session,
		notifier: cfg.Notifier,
		queue:    queue.New(),
		state:    store.New(),
		mode:     mode,
		users:    map[string]string{},
	}
}

// Connect starts dialing the server. Safe to call again after Close-less
// disconnects; a no-op unless the client is currently disconnected.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.closed || c.status != StatusDisconnected {
		c.mu.Unlock()
		return
	}
	c.status = StatusConnecting
	announce := !c.notifiedConnecting
	c.notifiedConnecting = true
	c.mu.Unlock()

	if announce {
		c.notifier.ConnectedStatusChanged(false)
		c.notifier.Info("Connecting to server")
	}

	go c.dialAndServe()
}

func (c *Client) dialAndServe() {
	rawURL := c.dialURL()

	conn, err := c.dial(rawURL)
	if err != nil {
		log.Warn().Err(err).Str("url", c.cfg.ServerURL).Msg("connect failed")
		c.handleDisconnect()
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.status = StatusConnected
	c.notifiedConnecting = false
	c.notifiedDown = false
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	c.mu.Unlock()

	log.Info().Str("url", c.cfg.ServerURL).Msg("connected to sync server")
	c.notifier.ConnectedStatusChanged(true)
	c.notifier.Info("Connected to server")

	c.readLoop(conn)
}

// dialURL appends the persisted user ID for session resumption when one
// exists.
func (c *Client) dialURL() string {
	rawURL := c.cfg.ServerURL
	userID := c.session.UserID()
	if userID == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("userId", userID)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) readLoop(conn Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Warn().Err(err).Msg("socket read failed")
			break
		}
		c.handleFrame(conn, raw)
	}
	conn.Close()
	c.handleDisconnect()
}

// handleDisconnect moves the session to DISCONNECTED and arms the retry
// timer. Only one timer is ever outstanding; a successful open clears it.
func (c *Client) handleDisconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.status = StatusDisconnected
	c.conn = nil
	announce := !c.notifiedDown
	c.notifiedDown = true
	if c.retryTimer == nil {
		c.retryTimer = c.clock.AfterFunc(c.cfg.RetryInterval, c.retryConnect)
	}
	c.mu.Unlock()

	if announce {
		c.notifier.ConnectedStatusChanged(false)
		c.notifier.Error("Disconnected from server")
	}
}

func (c *Client) retryConnect() {
	c.mu.Lock()
	c.retryTimer = nil
	if c.closed || c.status != StatusDisconnected {
		c.mu.Unlock()
		return
	}
	c.status = StatusConnecting
	c.mu.Unlock()

	go c.dialAndServe()
}

// Close tears the session down. The client does not reconnect afterwards.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.status = StatusDisconnected
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// Flush blocks until every inbound event received so far has been applied
// to the store. Intended for shutdown paths and tests.
func (c *Client) Flush() {
	c.queue.Wait()
}

// Status returns the connection state.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// State returns the current store snapshot. Snapshots are immutable; hold
// the reference as long as needed and re-read for fresher data.
func (c *Client) State() *store.Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// EffectiveUserID is the contributor identity representing "me": the
// shared room ID under ITEMSYNC, the personal user ID under COOP.
func (c *Client) EffectiveUserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effectiveUserIDLocked()
}

func (c *Client) effectiveUserIDLocked() string {
	if c.mode == wire.ModeItemSync {
		return c.roomID
	}
	return c.userID
}

// UserID returns the server-assigned session identity.
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// RoomID returns the joined room's identity, empty before the first join.
func (c *Client) RoomID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

// Mode returns the room synchronization mode.
func (c *Client) Mode() wire.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Users returns a copy of the current roster (user ID to display name).
func (c *Client) Users() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	users := make(map[string]string, len(c.users))
	for id, name := range c.users {
		users[id] = name
	}
	return users
}

// Stats reports connection diagnostics for the status endpoint.
func (c *Client) Stats() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]any{
		"status":  c.status.String(),
		"room_id": c.roomID,
		"user_id": c.userID,
		"mode":    string(c.mode),
		"users":   len(c.users),
		"pending": c.queue.Len(),
	}
}
