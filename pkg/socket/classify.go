package socket

import (
	"encoding/json"

	"github.com/DeBrosOfficial/cable/pkg/messages"
)

// Kind is the semantic kind of an inbound message.
type Kind int

const (
	// KindUnmatched is an absent (empty or null) message.
	KindUnmatched Kind = iota
	KindPing
	KindError
	KindCreate
	KindUpdate
	KindDelete
	// KindReplace has a handler capability but no decoder in the rule list.
	KindReplace
	// KindMessage is the generic fallback for anything no rule claimed.
	KindMessage
)

var kindNames = map[Kind]string{
	KindUnmatched: "unmatched",
	KindPing:      "ping",
	KindError:     "error",
	KindCreate:    "create",
	KindUpdate:    "update",
	KindDelete:    "delete",
	KindReplace:   "replace",
	KindMessage:   "message",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Classification is the tagged result of classifying one message.
type Classification struct {
	Kind    Kind
	Payload any
}

// Rule pairs a decoder with the handler that receives its payload.
type Rule struct {
	Kind    Kind
	Decode  func(raw json.RawMessage) (any, bool)
	Handler func(h *Handlers) Handler
}

func newRule[T any](kind Kind, decode messages.Decoder[T], pick func(T) any, handler func(h *Handlers) Handler) Rule {
	return Rule{
		Kind: kind,
		Decode: func(raw json.RawMessage) (any, bool) {
			v, ok := decode(raw)
			if !ok {
				return nil, false
			}
			return pick(v), true
		},
		Handler: handler,
	}
}

// rules is checked against every non-ping message, in order. The order is the
// tie-break when a message has more than one recognised member.
var rules = []Rule{
	newRule[messages.Error](KindError, messages.DecodeError,
		func(m messages.Error) any { return m },
		func(h *Handlers) Handler { return h.OnError }),
	newRule[messages.Create](KindCreate, messages.DecodeCreate,
		func(m messages.Create) any { return m.Create },
		func(h *Handlers) Handler { return h.OnCreate }),
	newRule[messages.Update](KindUpdate, messages.DecodeUpdate,
		func(m messages.Update) any { return m.Update },
		func(h *Handlers) Handler { return h.OnUpdate }),
	newRule[messages.Delete](KindDelete, messages.DecodeDelete,
		func(m messages.Delete) any { return m.Destroy },
		func(h *Handlers) Handler { return h.OnDelete }),
}

// Rules returns a copy of the ordered rule list.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify returns the first rule that decodes raw, without calling handlers.
// Absent messages are KindUnmatched, keep-alives KindPing, and anything no rule
// decodes is KindMessage with raw as payload.
func Classify(raw json.RawMessage) Classification {
	if messages.IsAbsent(raw) {
		return Classification{Kind: KindUnmatched}
	}
	if messages.IsPing(raw) {
		return Classification{Kind: KindPing}
	}
	for _, rule := range rules {
		if payload, ok := rule.Decode(raw); ok {
			return Classification{Kind: rule.Kind, Payload: payload}
		}
	}
	return Classification{Kind: KindMessage, Payload: raw}
}

// Result reports where a dispatched message ended up.
type Result struct {
	Kind     Kind
	Consumed bool
}

// Dispatch routes raw through h. Every rule whose decoder matches offers its
// payload to its handler; the first handler that consumes ends dispatch.
// Otherwise OnMessage gets the unmodified message. Absent messages and pings
// reach no handler and count as consumed.
func Dispatch(raw json.RawMessage, h Handlers) Result {
	h = h.withDefaults()
	if messages.IsAbsent(raw) {
		return Result{Kind: KindUnmatched, Consumed: true}
	}
	if messages.IsPing(raw) {
		return Result{Kind: KindPing, Consumed: true}
	}
	for _, rule := range rules {
		payload, ok := rule.Decode(raw)
		if !ok {
			continue
		}
		if rule.Handler(&h)(payload) {
			return Result{Kind: rule.Kind, Consumed: true}
		}
	}
	if h.OnMessage != nil && h.OnMessage(raw) {
		return Result{Kind: KindMessage, Consumed: true}
	}
	return Result{Kind: KindMessage}
}
