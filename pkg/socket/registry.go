package socket

import (
	"sort"
	"sync"

	"github.com/DeBrosOfficial/cable/pkg/contracts"
	"github.com/DeBrosOfficial/cable/pkg/logging"
	"go.uber.org/zap"
)

// Registry maps channel names to Channels. A name is bound to its first
// Channel for the registry's lifetime; there is no removal.
type Registry struct {
	transport contracts.Transport
	logger    *logging.ColoredLogger

	mu       sync.Mutex
	channels map[string]*Channel
}

// NewRegistry creates a registry whose channels default to transport. A nil
// logger discards diagnostics.
func NewRegistry(transport contracts.Transport, logger *logging.ColoredLogger) *Registry {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Registry{
		transport: transport,
		logger:    logger,
		channels:  make(map[string]*Channel),
	}
}

// Channel returns the channel registered under name, creating it on first use
// with params and transport. Later calls return the same *Channel and ignore
// their arguments. A nil transport falls back to the registry's.
func (r *Registry) Channel(name string, params ParamsFunc, transport contracts.Transport) *Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, exists := r.channels[name]; exists {
		return ch
	}
	if transport == nil {
		transport = r.transport
	}
	ch := newChannel(name, params, transport, r.logger)
	r.channels[name] = ch

	r.logger.ComponentDebug(logging.ComponentChannel, "channel created",
		zap.String("channel", name))
	return ch
}

// Lookup returns the channel registered under name without creating it.
func (r *Registry) Lookup(name string) (*Channel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[name]
	return ch, ok
}

// Names returns the sorted names of every channel created so far.
func (r *Registry) Names() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	r.mu.Unlock()

	sort.Strings(names)
	return names
}
