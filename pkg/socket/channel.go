package socket

import (
	"sort"
	"sync"

	"github.com/DeBrosOfficial/cable/pkg/contracts"
	"github.com/DeBrosOfficial/cable/pkg/errors"
	"github.com/DeBrosOfficial/cable/pkg/logging"
	"go.uber.org/zap"
)

// ParamsFunc builds the per-identity part of a subscription's join payload.
type ParamsFunc func(id Identity) contracts.Params

// Channel is the registry entry for one channel name. It owns at most one
// subscription per Identity.
type Channel struct {
	name      string
	params    ParamsFunc
	transport contracts.Transport
	logger    *logging.ColoredLogger

	mu      sync.Mutex
	entries map[Identity]*entry
}

func newChannel(name string, params ParamsFunc, transport contracts.Transport, logger *logging.ColoredLogger) *Channel {
	if params == nil {
		params = func(Identity) contracts.Params { return nil }
	}
	return &Channel{
		name:      name,
		params:    params,
		transport: transport,
		logger:    logger,
		entries:   make(map[Identity]*entry),
	}
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.name
}

// Send performs action on the subscription for id. A send to an identity with
// no live subscription is logged and otherwise ignored.
func (c *Channel) Send(action string, id Identity, value map[string]any) {
	c.mu.Lock()
	e, ok := c.entries[id]
	c.mu.Unlock()

	var handle contracts.Subscription
	if ok {
		handle = e.current()
	}
	if handle == nil {
		c.logger.ComponentWarn(logging.ComponentChannel, "send dropped",
			zap.String("channel", c.name),
			zap.String("action", action),
			zap.Error(errors.NewNotFoundError("subscription", string(id))))
		return
	}
	handle.Perform(action, value)
}

// Subscribe creates a subscription for id wired to h. It is a no-op when id
// already has one. The only errors are a Handlers record missing a required
// handler and a channel without a transport.
func (c *Channel) Subscribe(id Identity, h Handlers) error {
	if err := h.validate(); err != nil {
		return err
	}
	if c.transport == nil {
		return errors.NewValidationError("transport", "channel "+c.name+" has no transport", nil)
	}

	c.mu.Lock()
	if _, exists := c.entries[id]; exists {
		c.mu.Unlock()
		return nil
	}
	e := newEntry(c.name, id, h, c.logger)
	c.entries[id] = e
	c.mu.Unlock()

	handle := c.transport.Create(c.joinPayload(id), e.callbacks())
	if !e.attach(handle) {
		// Unsubscribed from inside Create; finish the teardown now.
		c.release(handle, c.Len() == 0)
		return nil
	}

	c.logger.ComponentDebug(logging.ComponentChannel, "subscribed",
		zap.String("channel", c.name),
		zap.String("identity", string(id)))
	return nil
}

// joinPayload is {"channel": name} with the params for id merged over it.
func (c *Channel) joinPayload(id Identity) contracts.Params {
	payload := contracts.Params{"channel": c.name}
	for k, v := range c.params(id) {
		payload[k] = v
	}
	return payload
}

// Unsubscribe removes the subscription for id, if any, and disconnects the
// owning connection when it was the channel's last one. callback, when
// non-nil, runs afterwards in every case.
func (c *Channel) Unsubscribe(id Identity, callback func()) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if ok {
		delete(c.entries, id)
	}
	empty := len(c.entries) == 0
	c.mu.Unlock()

	if ok {
		if handle := e.close(); handle != nil {
			c.release(handle, empty)
		}
		c.logger.ComponentDebug(logging.ComponentChannel, "unsubscribed",
			zap.String("channel", c.name),
			zap.String("identity", string(id)))
	}

	if callback != nil {
		callback()
	}
}

// UnsubscribeAll removes every subscription of the channel. The connection is
// disconnected once, after the last removal, and callback runs exactly once.
func (c *Channel) UnsubscribeAll(callback func()) {
	for _, id := range c.Identities() {
		c.Unsubscribe(id, nil)
	}
	if callback != nil {
		callback()
	}
}

func (c *Channel) release(handle contracts.Subscription, empty bool) {
	handle.Unsubscribe()
	if !empty {
		return
	}
	c.logger.ComponentInfo(logging.ComponentChannel, "last subscription removed, disconnecting",
		zap.String("channel", c.name))
	if consumer := handle.Consumer(); consumer != nil {
		consumer.Disconnect()
	}
}

// Identities returns a sorted snapshot of the subscribed identities.
func (c *Channel) Identities() []Identity {
	c.mu.Lock()
	ids := make([]Identity, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of live subscriptions.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// State returns the lifecycle state of the subscription for id.
func (c *Channel) State(id Identity) (State, bool) {
	c.mu.Lock()
	e, ok := c.entries[id]
	c.mu.Unlock()
	if !ok {
		return 0, false
	}
	return e.currentState(), true
}
