package actioncable

import (
	"encoding/json"

	"github.com/DeBrosOfficial/cable/pkg/contracts"
)

var _ contracts.Subscription = (*Subscription)(nil)

// Subscription is the handle Create returns.
type Subscription struct {
	consumer   *Consumer
	identifier string
	callbacks  contracts.Callbacks
}

// Identifier is the encoded join params the server knows the subscription by.
func (s *Subscription) Identifier() string {
	return s.identifier
}

// Perform sends action with data to the channel on the server.
func (s *Subscription) Perform(action string, data map[string]any) {
	s.consumer.perform(s, action, data)
}

// Unsubscribe removes the subscription from the consumer.
func (s *Subscription) Unsubscribe() {
	s.consumer.remove(s)
}

// Consumer returns the connection owner.
func (s *Subscription) Consumer() contracts.Consumer {
	return s.consumer
}

func (s *Subscription) received(message json.RawMessage) {
	if s.callbacks.Received != nil {
		s.callbacks.Received(message)
	}
}

func (s *Subscription) connected() {
	if s.callbacks.Connected != nil {
		s.callbacks.Connected()
	}
}

func (s *Subscription) disconnected() {
	if s.callbacks.Disconnected != nil {
		s.callbacks.Disconnected()
	}
}

func (s *Subscription) rejected() {
	if s.callbacks.Rejected != nil {
		s.callbacks.Rejected()
	}
}
