package socket

import (
	"encoding/json"
	"sync"

	"github.com/DeBrosOfficial/cable/pkg/contracts"
)

type performed struct {
	action string
	data   map[string]any
}

type fakeConsumer struct {
	mu          sync.Mutex
	disconnects int
}

func (c *fakeConsumer) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects++
}

func (c *fakeConsumer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnects
}

type fakeSubscription struct {
	transport *fakeTransport
	params    contracts.Params
	callbacks contracts.Callbacks

	mu       sync.Mutex
	performs []performed
}

func (s *fakeSubscription) Perform(action string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.performs = append(s.performs, performed{action: action, data: data})
}

func (s *fakeSubscription) Unsubscribe() {
	s.transport.mu.Lock()
	defer s.transport.mu.Unlock()
	s.transport.unsubscribes++
}

func (s *fakeSubscription) Consumer() contracts.Consumer {
	return s.transport.consumer
}

func (s *fakeSubscription) actions() []performed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]performed(nil), s.performs...)
}

// fakeTransport records every call. When onCreate is set it runs inside
// Create, before the handle is returned, the way a synchronous cable would
// deliver its first frames.
type fakeTransport struct {
	consumer *fakeConsumer
	onCreate func(cb contracts.Callbacks)

	mu           sync.Mutex
	subs         []*fakeSubscription
	unsubscribes int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{consumer: &fakeConsumer{}}
}

// deliveringTransport mirrors a cable that pushes message as soon as the
// subscription is created.
func deliveringTransport(message string) *fakeTransport {
	f := newFakeTransport()
	f.onCreate = func(cb contracts.Callbacks) {
		var raw json.RawMessage
		if message != "" {
			raw = json.RawMessage(message)
		}
		cb.Received(raw)
	}
	return f
}

func (f *fakeTransport) Create(params contracts.Params, callbacks contracts.Callbacks) contracts.Subscription {
	sub := &fakeSubscription{transport: f, params: params, callbacks: callbacks}
	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()

	if f.onCreate != nil {
		f.onCreate(callbacks)
	}
	return sub
}

func (f *fakeTransport) creates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeTransport) unsubscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unsubscribes
}

func (f *fakeTransport) sub(i int) *fakeSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[i]
}

// counter is a Handler that records its calls and consumes when told to.
type counter struct {
	mu      sync.Mutex
	values  []any
	consume bool
}

func consuming() *counter { return &counter{consume: true} }
func declining() *counter { return &counter{} }

func (c *counter) handle(v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
	return c.consume
}

func (c *counter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

func (c *counter) last() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.values) == 0 {
		return nil
	}
	return c.values[len(c.values)-1]
}

// testHandlers fills the required handlers with no-ops.
func testHandlers(h Handlers) Handlers {
	if h.OnMessage == nil {
		h.OnMessage = Nothing
	}
	if h.OnUnauthorized == nil {
		h.OnUnauthorized = func(string) {}
	}
	if h.OnUnauthenticated == nil {
		h.OnUnauthenticated = func(string) {}
	}
	return h
}

func idParams(id Identity) contracts.Params {
	return contracts.Params{"id": string(id)}
}
