package contracts

import "encoding/json"

// Params is the join payload a subscription is created with. It always carries
// the channel name under "channel" plus whatever the channel's params function
// returned for the identity.
type Params map[string]any

// Callbacks are the lifecycle hooks a Transport invokes for one subscription.
// Any of them may be nil. They are called one at a time, in delivery order,
// usually from the transport's reader goroutine but possibly from inside Create.
type Callbacks struct {
	// Received is called with the raw message body addressed to the subscription.
	Received func(message json.RawMessage)

	// Connected is called each time the server confirms the subscription.
	Connected func()

	// Disconnected is called when the physical connection goes away.
	Disconnected func()

	// Rejected is called when the server refuses the subscription.
	Rejected func()
}

// Transport creates subscriptions on a shared physical connection.
// Implementations open the connection lazily, on the first Create.
type Transport interface {
	// Create registers a subscription for params and returns its handle.
	// It may dial the connection; failures surface through callbacks, never
	// as an error.
	Create(params Params, callbacks Callbacks) Subscription
}

// Subscription is the transport-level handle for one created subscription.
type Subscription interface {
	// Perform invokes a server-side action on the subscription. data may be nil.
	Perform(action string, data map[string]any)

	// Unsubscribe tells the server to drop the subscription.
	Unsubscribe()

	// Consumer returns the connection that owns the subscription.
	Consumer() Consumer
}

// Consumer is the owning physical connection.
type Consumer interface {
	// Disconnect closes the physical connection.
	Disconnect()
}
