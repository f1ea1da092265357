package actioncable

import (
	"encoding/json"

	"github.com/DeBrosOfficial/cable/pkg/contracts"
)

// Subprotocols offered during the handshake, preferred first.
const (
	ProtocolJSON        = "actioncable-v1-json"
	ProtocolUnsupported = "actioncable-unsupported"
)

// Server frame types.
const (
	typeWelcome    = "welcome"
	typePing       = "ping"
	typeConfirm    = "confirm_subscription"
	typeReject     = "reject_subscription"
	typeDisconnect = "disconnect"
)

// Client commands.
const (
	commandSubscribe   = "subscribe"
	commandUnsubscribe = "unsubscribe"
	commandMessage     = "message"
)

// frame is anything the server sends. Data frames have no type and carry the
// channel payload in Message.
type frame struct {
	Type       string          `json:"type,omitempty"`
	Identifier string          `json:"identifier,omitempty"`
	Message    json.RawMessage `json:"message,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	Reconnect  *bool           `json:"reconnect,omitempty"`
}

// command is anything the client sends.
type command struct {
	Command    string `json:"command"`
	Identifier string `json:"identifier"`
	Data       string `json:"data,omitempty"`
}

// identifierFor encodes join params the way the server keys subscriptions.
// encoding/json sorts map keys, so equal params give equal identifiers.
func identifierFor(params contracts.Params) (string, error) {
	if params == nil {
		params = contracts.Params{}
	}
	b, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// messageData encodes a perform call. The action name wins over an "action"
// key in data.
func messageData(action string, data map[string]any) (string, error) {
	payload := make(map[string]any, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	payload["action"] = action
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
