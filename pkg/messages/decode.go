package messages

import (
	"bytes"
	"encoding/json"
)

// Decoder extracts a T from a raw message or reports false.
type Decoder[T any] func(raw json.RawMessage) (T, bool)

// Ping is the transport keep-alive frame.
type Ping struct {
	Type    string   `json:"type"`
	Message *float64 `json:"message,omitempty"`
}

// Error is a server-reported failure for the subscription.
type Error struct {
	Error string `json:"error"`
	// Raw is the whole message, so handlers can read fields beyond "error".
	Raw json.RawMessage `json:"-"`
}

// Create carries a newly created record.
type Create struct {
	Create json.RawMessage `json:"create"`
}

// Update carries a changed record.
type Update struct {
	Update json.RawMessage `json:"update"`
}

// Delete carries a removed record. The wire field is "destroy".
type Delete struct {
	Destroy json.RawMessage `json:"destroy"`
}

// IsAbsent reports whether raw carries no message at all: empty or JSON null.
func IsAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// object decodes raw as a JSON object. Arrays, scalars and malformed input
// report false.
func object(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// field returns a present, non-null member of an object.
func field(raw json.RawMessage, name string) (json.RawMessage, bool) {
	fields, ok := object(raw)
	if !ok {
		return nil, false
	}
	value, ok := fields[name]
	if !ok || IsAbsent(value) {
		return nil, false
	}
	return value, true
}

// DecodePing matches {"type": "ping"} with an optional numeric "message".
func DecodePing(raw json.RawMessage) (Ping, bool) {
	fields, ok := object(raw)
	if !ok {
		return Ping{}, false
	}
	var kind string
	if err := json.Unmarshal(fields["type"], &kind); err != nil || kind != "ping" {
		return Ping{}, false
	}
	ping := Ping{Type: kind}
	if message, present := fields["message"]; present {
		var n float64
		if err := json.Unmarshal(message, &n); err != nil || IsAbsent(message) {
			return Ping{}, false
		}
		ping.Message = &n
	}
	return ping, true
}

// IsPing reports whether raw is a keep-alive frame.
func IsPing(raw json.RawMessage) bool {
	_, ok := DecodePing(raw)
	return ok
}

// DecodeError matches an object whose "error" member is a string.
func DecodeError(raw json.RawMessage) (Error, bool) {
	value, ok := field(raw, "error")
	if !ok {
		return Error{}, false
	}
	var text string
	if err := json.Unmarshal(value, &text); err != nil {
		return Error{}, false
	}
	return Error{Error: text, Raw: raw}, true
}

// DecodeCreate matches {"create": ...}.
func DecodeCreate(raw json.RawMessage) (Create, bool) {
	value, ok := field(raw, "create")
	if !ok {
		return Create{}, false
	}
	return Create{Create: value}, true
}

// DecodeUpdate matches {"update": ...}.
func DecodeUpdate(raw json.RawMessage) (Update, bool) {
	value, ok := field(raw, "update")
	if !ok {
		return Update{}, false
	}
	return Update{Update: value}, true
}

// DecodeDelete matches {"destroy": ...}.
func DecodeDelete(raw json.RawMessage) (Delete, bool) {
	value, ok := field(raw, "destroy")
	if !ok {
		return Delete{}, false
	}
	return Delete{Destroy: value}, true
}
