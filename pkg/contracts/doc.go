// Package contracts defines the interfaces the channel multiplexer uses to talk
// to its transport.
//
// The multiplexer in package socket never touches a websocket directly. It asks
// a Transport to create subscriptions, performs actions and unsubscribes through
// the returned Subscription, and disconnects the owning Consumer once a channel
// has no subscriptions left. Package actioncable provides the production
// implementation; tests use in-memory fakes.
//
// Interfaces:
//   - Transport: subscription factory bound to one shared connection
//   - Subscription: per-subscription handle (perform, unsubscribe)
//   - Consumer: the owning connection (disconnect)
package contracts
