package actioncable

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/DeBrosOfficial/cable/pkg/contracts"
	"github.com/DeBrosOfficial/cable/pkg/errors"
	"github.com/DeBrosOfficial/cable/pkg/logging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	_ contracts.Transport = (*Consumer)(nil)
	_ contracts.Consumer  = (*Consumer)(nil)
)

// Consumer is one ActionCable connection shared by every subscription created
// through it. The websocket is dialed on the first Create and again on the
// first Create after Disconnect; it never reconnects on its own.
type Consumer struct {
	url          string
	dialer       *websocket.Dialer
	header       http.Header
	writeTimeout time.Duration
	logger       *logging.ColoredLogger

	// dialMu serializes dialing so concurrent Creates share one connection.
	dialMu sync.Mutex

	mu       sync.Mutex
	conn     *connection
	subs     map[*Subscription]struct{}
	lastPing time.Time
}

// NewConsumer returns a Consumer for the cable endpoint at url.
func NewConsumer(url string, opts ...Option) *Consumer {
	c := &Consumer{
		url: url,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
		header:       make(http.Header),
		writeTimeout: defaultWriteTimeout,
		logger:       logging.NewNopLogger(),
		subs:         make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.dialer.Subprotocols) == 0 {
		c.dialer.Subprotocols = []string{ProtocolJSON, ProtocolUnsupported}
	}
	if c.dialer.HandshakeTimeout <= 0 {
		c.dialer.HandshakeTimeout = defaultHandshakeTimeout
	}
	return c
}

// URL returns the cable endpoint.
func (c *Consumer) URL() string {
	return c.url
}

// Create registers a subscription for params and asks the server for it,
// dialing first when there is no open connection. A failed dial reports
// Disconnected to the new subscription.
func (c *Consumer) Create(params contracts.Params, callbacks contracts.Callbacks) contracts.Subscription {
	sub := &Subscription{consumer: c, callbacks: callbacks}

	identifier, err := identifierFor(params)
	if err != nil {
		c.logger.ComponentError(logging.ComponentCable, "cannot encode subscription params",
			zap.Error(errors.NewValidationError("params", err.Error(), params)))
		return sub
	}
	sub.identifier = identifier

	c.mu.Lock()
	c.subs[sub] = struct{}{}
	c.mu.Unlock()

	conn, fresh, err := c.connect()
	if err != nil {
		c.logger.ComponentWarn(logging.ComponentCable, "cable unreachable",
			zap.String("identifier", identifier),
			zap.Error(err))
		sub.disconnected()
		return sub
	}
	if fresh {
		// connect already subscribed everything registered, sub included.
		return sub
	}

	if confirmed := conn.join(sub); confirmed {
		sub.connected()
	}
	return sub
}

// Disconnect closes the current connection. Subscriptions stay registered and
// are subscribed again by the next Create.
func (c *Consumer) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return
	}
	c.logger.ComponentInfo(logging.ComponentCable, "disconnecting",
		zap.String("conn_id", conn.id))
	conn.close()
}

// Connected reports whether a connection is open.
func (c *Consumer) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// LastPing returns when the server last sent a ping frame.
func (c *Consumer) LastPing() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPing
}

// connect returns the open connection, dialing one when needed. fresh reports
// a new connection, on which every registered subscription has been queued
// for subscribe.
func (c *Consumer) connect() (*connection, bool, error) {
	c.dialMu.Lock()
	defer c.dialMu.Unlock()

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		return conn, false, nil
	}

	ws, resp, err := c.dialer.Dial(c.url, c.header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, false, errors.NewTransportError("dial", c.url, err)
	}
	if ws.Subprotocol() == ProtocolUnsupported {
		ws.Close()
		return nil, false, errors.NewTransportError("dial", c.url, errors.New("server does not support "+ProtocolJSON))
	}

	conn = newConnection(ws, c.writeTimeout, c.logger)
	c.logger.ComponentInfo(logging.ComponentCable, "connected",
		zap.String("conn_id", conn.id),
		zap.String("url", c.url),
		zap.String("subprotocol", ws.Subprotocol()))

	c.mu.Lock()
	c.conn = conn
	subs := make([]*Subscription, 0, len(c.subs))
	for sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		conn.join(sub)
	}
	go c.readLoop(conn)
	return conn, true, nil
}

func (c *Consumer) current() *connection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

func (c *Consumer) registered(sub *Subscription) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.subs[sub]
	return ok
}

func (c *Consumer) perform(sub *Subscription, action string, data map[string]any) {
	if !c.registered(sub) {
		c.logger.ComponentDebug(logging.ComponentCable, "perform on removed subscription",
			zap.String("identifier", sub.identifier),
			zap.String("action", action))
		return
	}
	conn := c.current()
	if conn == nil {
		c.logger.ComponentWarn(logging.ComponentCable, "perform dropped, not connected",
			zap.String("identifier", sub.identifier),
			zap.String("action", action))
		return
	}
	payload, err := messageData(action, data)
	if err != nil {
		c.logger.ComponentError(logging.ComponentCable, "cannot encode perform data",
			zap.String("identifier", sub.identifier),
			zap.String("action", action),
			zap.Error(err))
		return
	}
	conn.send(command{Command: commandMessage, Identifier: sub.identifier, Data: payload})
}

func (c *Consumer) remove(sub *Subscription) {
	c.mu.Lock()
	_, ok := c.subs[sub]
	delete(c.subs, sub)
	conn := c.conn
	c.mu.Unlock()

	if ok && conn != nil {
		conn.leave(sub)
	}
}

// forget drops subscriptions the server rejected.
func (c *Consumer) forget(subs []*Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range subs {
		delete(c.subs, sub)
	}
}

func (c *Consumer) readLoop(conn *connection) {
	defer c.connectionLost(conn)

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if !conn.isClosed() && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.logger.ComponentWarn(logging.ComponentCable, "read failed",
					zap.String("conn_id", conn.id),
					zap.Error(err))
			}
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.logger.ComponentWarn(logging.ComponentCable, "malformed frame",
				zap.String("conn_id", conn.id),
				zap.Error(err))
			continue
		}

		switch f.Type {
		case typeWelcome:
			conn.welcome()
		case typePing:
			c.mu.Lock()
			c.lastPing = time.Now()
			c.mu.Unlock()
		case typeConfirm:
			for _, sub := range conn.confirm(f.Identifier) {
				sub.connected()
			}
		case typeReject:
			rejected := conn.reject(f.Identifier)
			c.forget(rejected)
			c.logger.ComponentWarn(logging.ComponentCable, "subscription rejected",
				zap.String("conn_id", conn.id),
				zap.String("identifier", f.Identifier))
			for _, sub := range rejected {
				sub.rejected()
			}
		case typeDisconnect:
			c.logger.ComponentInfo(logging.ComponentCable, "server closed the connection",
				zap.String("conn_id", conn.id),
				zap.String("reason", f.Reason))
			conn.close()
			return
		case "":
			if f.Identifier == "" {
				continue
			}
			for _, sub := range conn.members(f.Identifier) {
				sub.received(f.Message)
			}
		default:
			c.logger.ComponentDebug(logging.ComponentCable, "ignoring frame",
				zap.String("conn_id", conn.id),
				zap.String("type", f.Type))
		}
	}
}

// connectionLost reports Disconnected to every subscription that was on conn.
func (c *Consumer) connectionLost(conn *connection) {
	conn.close()

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()

	subs := conn.drain()
	c.logger.ComponentInfo(logging.ComponentCable, "connection closed",
		zap.String("conn_id", conn.id),
		zap.Int("subscriptions", len(subs)))
	for _, sub := range subs {
		sub.disconnected()
	}
}

// connection is one physical websocket and the subscriptions sent over it.
type connection struct {
	id           string
	ws           *websocket.Conn
	writeTimeout time.Duration
	logger       *logging.ColoredLogger
	closeOnce    sync.Once

	// mu also serializes writes.
	mu        sync.Mutex
	closed    bool
	welcomed  bool
	queue     []command
	subs      map[*Subscription]struct{}
	requested map[string]bool
	confirmed map[string]bool
}

func newConnection(ws *websocket.Conn, writeTimeout time.Duration, logger *logging.ColoredLogger) *connection {
	return &connection{
		id:           uuid.NewString(),
		ws:           ws,
		writeTimeout: writeTimeout,
		logger:       logger,
		subs:         make(map[*Subscription]struct{}),
		requested:    make(map[string]bool),
		confirmed:    make(map[string]bool),
	}
}

// join adds sub and requests its identifier once per connection. It reports
// whether the server already confirmed that identifier.
func (conn *connection) join(sub *Subscription) bool {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	conn.subs[sub] = struct{}{}
	if conn.confirmed[sub.identifier] {
		return true
	}
	if !conn.requested[sub.identifier] {
		conn.requested[sub.identifier] = true
		conn.sendLocked(command{Command: commandSubscribe, Identifier: sub.identifier})
	}
	return false
}

// leave removes sub and unsubscribes its identifier when no one else uses it.
func (conn *connection) leave(sub *Subscription) {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if _, ok := conn.subs[sub]; !ok {
		return
	}
	delete(conn.subs, sub)
	for other := range conn.subs {
		if other.identifier == sub.identifier {
			return
		}
	}
	delete(conn.requested, sub.identifier)
	delete(conn.confirmed, sub.identifier)
	conn.sendLocked(command{Command: commandUnsubscribe, Identifier: sub.identifier})
}

func (conn *connection) members(identifier string) []*Subscription {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	var out []*Subscription
	for sub := range conn.subs {
		if sub.identifier == identifier {
			out = append(out, sub)
		}
	}
	return out
}

func (conn *connection) confirm(identifier string) []*Subscription {
	conn.mu.Lock()
	conn.confirmed[identifier] = true
	conn.mu.Unlock()
	return conn.members(identifier)
}

func (conn *connection) reject(identifier string) []*Subscription {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	var out []*Subscription
	for sub := range conn.subs {
		if sub.identifier == identifier {
			out = append(out, sub)
			delete(conn.subs, sub)
		}
	}
	delete(conn.requested, identifier)
	delete(conn.confirmed, identifier)
	return out
}

// welcome flushes the commands queued before the server greeted us.
func (conn *connection) welcome() {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	conn.welcomed = true
	queued := conn.queue
	conn.queue = nil
	for _, cmd := range queued {
		conn.writeLocked(cmd)
	}
}

func (conn *connection) send(cmd command) {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	conn.sendLocked(cmd)
}

func (conn *connection) sendLocked(cmd command) {
	if conn.closed {
		return
	}
	if !conn.welcomed {
		conn.queue = append(conn.queue, cmd)
		return
	}
	conn.writeLocked(cmd)
}

func (conn *connection) writeLocked(cmd command) {
	conn.ws.SetWriteDeadline(time.Now().Add(conn.writeTimeout))
	if err := conn.ws.WriteJSON(cmd); err != nil {
		conn.logger.ComponentWarn(logging.ComponentCable, "write failed",
			zap.String("conn_id", conn.id),
			zap.String("command", cmd.Command),
			zap.String("identifier", cmd.Identifier),
			zap.Error(err))
	}
}

func (conn *connection) close() {
	conn.closeOnce.Do(func() {
		conn.mu.Lock()
		conn.closed = true
		conn.mu.Unlock()
		conn.ws.Close()
	})
}

func (conn *connection) isClosed() bool {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.closed
}

// drain empties the connection and returns the subscriptions it carried.
func (conn *connection) drain() []*Subscription {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	out := make([]*Subscription, 0, len(conn.subs))
	for sub := range conn.subs {
		out = append(out, sub)
	}
	conn.subs = make(map[*Subscription]struct{})
	return out
}
