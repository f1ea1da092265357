package actioncable

import (
	"net/http"
	"time"

	"github.com/DeBrosOfficial/cable/pkg/config"
	"github.com/DeBrosOfficial/cable/pkg/logging"
	"github.com/gorilla/websocket"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 10 * time.Second
)

// Option configures a Consumer.
type Option func(*Consumer)

// WithLogger sets the logger. A nil logger keeps the nop default.
func WithLogger(logger *logging.ColoredLogger) Option {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDialer replaces the websocket dialer. The ActionCable subprotocols are
// added when the dialer offers none.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Consumer) {
		if d == nil {
			return
		}
		dialer := *d
		c.dialer = &dialer
	}
}

// WithHeader adds a header sent with the handshake.
func WithHeader(key, value string) Option {
	return func(c *Consumer) {
		c.header.Add(key, value)
	}
}

// WithOrigin sets the Origin header of the handshake.
func WithOrigin(origin string) Option {
	return func(c *Consumer) {
		if origin != "" {
			c.header.Set("Origin", origin)
		}
	}
}

// WithWriteTimeout bounds every frame write.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Consumer) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// WithHandshakeTimeout bounds the websocket handshake.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Consumer) {
		if d > 0 {
			c.dialer.HandshakeTimeout = d
		}
	}
}

// OptionsFromConfig translates the transport section of a config file.
// origin is used when the config does not set one.
func OptionsFromConfig(tc config.TransportConfig, origin string) []Option {
	opts := []Option{
		WithDialer(&websocket.Dialer{
			Proxy:           http.ProxyFromEnvironment,
			ReadBufferSize:  tc.ReadBufferSize,
			WriteBufferSize: tc.WriteBufferSize,
		}),
		WithHandshakeTimeout(tc.HandshakeTimeout),
		WithWriteTimeout(tc.WriteTimeout),
	}
	if tc.Origin != "" {
		origin = tc.Origin
	}
	opts = append(opts, WithOrigin(origin))
	for k, v := range tc.Headers {
		opts = append(opts, WithHeader(k, v))
	}
	return opts
}
