package socket

import (
	"encoding/json"
	"sync"

	"github.com/DeBrosOfficial/cable/pkg/contracts"
	"github.com/DeBrosOfficial/cable/pkg/logging"
	"go.uber.org/zap"
)

// State is the transport lifecycle state of one subscription.
type State int

const (
	StatePending State = iota
	StateConnected
	StateDisconnected
	StateRejected
	stateCount
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type event int

const (
	eventConnected event = iota
	eventDisconnected
	eventRejected
	eventCount
)

type action int

const (
	actionHydrate action = iota
	actionUnauthenticated
	actionUnauthorized
)

type transition struct {
	next State
	do   action
}

// transitions is the whole lifecycle. Every event fires its action from every
// state: a transport that reconnects gets re-hydrated.
var transitions = [stateCount][eventCount]transition{
	StatePending: {
		eventConnected:    {StateConnected, actionHydrate},
		eventDisconnected: {StateDisconnected, actionUnauthenticated},
		eventRejected:     {StateRejected, actionUnauthorized},
	},
	StateConnected: {
		eventConnected:    {StateConnected, actionHydrate},
		eventDisconnected: {StateDisconnected, actionUnauthenticated},
		eventRejected:     {StateRejected, actionUnauthorized},
	},
	StateDisconnected: {
		eventConnected:    {StateConnected, actionHydrate},
		eventDisconnected: {StateDisconnected, actionUnauthenticated},
		eventRejected:     {StateRejected, actionUnauthorized},
	},
	StateRejected: {
		eventConnected:    {StateConnected, actionHydrate},
		eventDisconnected: {StateDisconnected, actionUnauthenticated},
		eventRejected:     {StateRejected, actionUnauthorized},
	},
}

// hydrateAction asks the server for a full resync of the subscription.
const hydrateAction = "hydrate"

// entry is one live subscription of a Channel.
type entry struct {
	channel  string
	id       Identity
	handlers Handlers
	logger   *logging.ColoredLogger

	mu     sync.Mutex
	handle contracts.Subscription
	state  State
	// hydrate arrived before Create returned the handle.
	hydratePending bool
	closed         bool
}

func newEntry(channel string, id Identity, handlers Handlers, logger *logging.ColoredLogger) *entry {
	return &entry{
		channel:  channel,
		id:       id,
		handlers: handlers.withDefaults(),
		logger:   logger,
		state:    StatePending,
	}
}

func (e *entry) callbacks() contracts.Callbacks {
	return contracts.Callbacks{
		Received:     e.received,
		Connected:    func() { e.fire(eventConnected) },
		Disconnected: func() { e.fire(eventDisconnected) },
		Rejected:     func() { e.fire(eventRejected) },
	}
}

// attach stores the handle Create returned. It reports false when the entry
// was removed while Create was still running.
func (e *entry) attach(handle contracts.Subscription) bool {
	e.mu.Lock()
	e.handle = handle
	hydrate := e.hydratePending && !e.closed
	e.hydratePending = false
	closed := e.closed
	e.mu.Unlock()

	if hydrate {
		handle.Perform(hydrateAction, nil)
	}
	return !closed
}

// close marks the entry removed and returns its handle, which is nil while
// Create has not returned yet.
func (e *entry) close() contracts.Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return e.handle
}

func (e *entry) current() contracts.Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	return e.handle
}

func (e *entry) currentState() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *entry) fire(ev event) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	t := transitions[e.state][ev]
	from := e.state
	e.state = t.next
	handle := e.handle
	if t.do == actionHydrate && handle == nil {
		e.hydratePending = true
	}
	e.mu.Unlock()

	e.logger.ComponentDebug(logging.ComponentChannel, "subscription state changed",
		zap.String("channel", e.channel),
		zap.String("identity", string(e.id)),
		zap.String("from", from.String()),
		zap.String("to", t.next.String()))

	switch t.do {
	case actionHydrate:
		if handle != nil {
			handle.Perform(hydrateAction, nil)
		}
	case actionUnauthenticated:
		e.handlers.OnUnauthenticated(ExplanationUnauthenticated)
	case actionUnauthorized:
		e.handlers.OnUnauthorized(ExplanationUnauthorized)
	}
}

func (e *entry) received(raw json.RawMessage) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return
	}

	result := Dispatch(raw, e.handlers)
	if !result.Consumed {
		e.logger.ComponentError(logging.ComponentChannel, "problem with: "+string(raw),
			zap.String("channel", e.channel),
			zap.String("identity", string(e.id)))
	}
}
