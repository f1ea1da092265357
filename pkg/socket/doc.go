// Package socket multiplexes many logical channels, and many identities within
// each channel, over one shared realtime connection.
//
// A Registry hands out one Channel per name for its whole lifetime. Each
// Channel tracks at most one live subscription per Identity, creates it through
// a contracts.Transport, classifies every inbound message and routes it to the
// matching handler of the Handlers record the caller subscribed with. When the
// last subscription of a channel is removed, the owning connection is told to
// disconnect.
//
// Typical use:
//
//	consumer := actioncable.NewConsumer(hosts.SocketHost, actioncable.WithLogger(logger))
//	registry := socket.NewRegistry(consumer, logger)
//
//	teams := registry.Channel("TeamChannel", func(id socket.Identity) contracts.Params {
//		return contracts.Params{"id": string(id)}
//	}, nil)
//	err := teams.Subscribe(socket.IdentityOf(42), socket.Handlers{
//		OnMessage:         func(v any) bool { ...; return true },
//		OnUpdate:          func(v any) bool { ...; return true },
//		OnUnauthorized:    func(string) { ... },
//		OnUnauthenticated: func(string) { ... },
//	})
//	teams.Send("rename", socket.IdentityOf(42), map[string]any{"name": "Storm"})
//	teams.Unsubscribe(socket.IdentityOf(42), nil)
package socket
