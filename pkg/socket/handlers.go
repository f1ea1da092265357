package socket

import (
	"github.com/DeBrosOfficial/cable/pkg/errors"
)

// Handler receives one decoded value and reports whether it consumed it.
// A handler that returns false lets dispatch continue down the rule list.
type Handler func(value any) bool

// Nothing is the handler used for every optional capability the caller left
// out. It consumes nothing.
var Nothing Handler = func(any) bool { return false }

// Explanations passed to the lifecycle handlers.
const (
	ExplanationUnauthorized    = errors.CodeUnauthorized
	ExplanationUnauthenticated = errors.CodeUnauthenticated
)

// Handlers is the capability record a caller subscribes with.
//
// OnMessage, OnUnauthorized and OnUnauthenticated are required. The value
// handlers receive:
//
//	OnError    messages.Error (the whole decoded error message)
//	OnCreate   json.RawMessage of the "create" member
//	OnUpdate   json.RawMessage of the "update" member
//	OnDelete   json.RawMessage of the "destroy" member
//	OnMessage  json.RawMessage of the unmodified message
//
// OnReplace is accepted but no message shape currently triggers it.
type Handlers struct {
	OnMessage Handler
	OnCreate  Handler
	OnUpdate  Handler
	OnDelete  Handler
	OnReplace Handler
	OnError   Handler

	// OnUnauthorized is called with ExplanationUnauthorized when the server
	// rejects the subscription.
	OnUnauthorized func(explanation string)
	// OnUnauthenticated is called with ExplanationUnauthenticated when the
	// connection carrying the subscription goes away.
	OnUnauthenticated func(explanation string)
}

func (h Handlers) validate() error {
	switch {
	case h.OnMessage == nil:
		return errors.NewValidationError("OnMessage", "handler is required", nil)
	case h.OnUnauthorized == nil:
		return errors.NewValidationError("OnUnauthorized", "handler is required", nil)
	case h.OnUnauthenticated == nil:
		return errors.NewValidationError("OnUnauthenticated", "handler is required", nil)
	}
	return nil
}

// withDefaults replaces every missing optional handler with Nothing.
func (h Handlers) withDefaults() Handlers {
	for _, slot := range []*Handler{&h.OnCreate, &h.OnUpdate, &h.OnDelete, &h.OnReplace, &h.OnError} {
		if *slot == nil {
			*slot = Nothing
		}
	}
	return h
}
