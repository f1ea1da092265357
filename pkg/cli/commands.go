package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/DeBrosOfficial/cable/pkg/config"
	"github.com/DeBrosOfficial/cable/pkg/errors"
	"github.com/DeBrosOfficial/cable/pkg/messages"
	"github.com/DeBrosOfficial/cable/pkg/socket"
)

// PrintHosts writes the REST and socket endpoints derived from appURL.
func PrintHosts(w io.Writer, appURL string) error {
	u, err := url.Parse(appURL)
	if err != nil {
		return errors.NewValidationError("app-url", err.Error(), appURL)
	}
	if u.Host == "" {
		return errors.NewValidationError("app-url", "missing host", appURL)
	}

	hosts := config.ResolveHosts(u)
	fmt.Fprintln(w, titleStyle.Render(u.Host))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("REST:  "), hosts.RESTHost)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Socket:"), hosts.SocketHost)
	return nil
}

// printer writes one line per dispatched message.
type printer struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

func (p *printer) line(kind socket.Kind, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s %s\n", timeStyle.Render(p.now().Format("15:04:05")), kindLabel(kind), body)
}

func (p *printer) handler(kind socket.Kind) socket.Handler {
	return func(value any) bool {
		switch v := value.(type) {
		case json.RawMessage:
			p.line(kind, string(v))
		case messages.Error:
			p.line(kind, v.Error)
		default:
			p.line(kind, fmt.Sprint(v))
		}
		return true
	}
}

// stop records the first lifecycle failure.
type stop struct {
	once sync.Once
	ch   chan error
}

func newStop() *stop {
	return &stop{ch: make(chan error, 1)}
}

func (s *stop) fail(err error) {
	s.once.Do(func() { s.ch <- err })
}

func watchHandlers(channel string, p *printer, s *stop) socket.Handlers {
	return socket.Handlers{
		OnMessage: p.handler(socket.KindMessage),
		OnCreate:  p.handler(socket.KindCreate),
		OnUpdate:  p.handler(socket.KindUpdate),
		OnDelete:  p.handler(socket.KindDelete),
		OnError:   p.handler(socket.KindError),
		OnUnauthorized: func(string) {
			s.fail(errors.NewUnauthorizedError(channel))
		},
		OnUnauthenticated: func(string) {
			s.fail(errors.NewUnauthenticatedError(channel))
		},
	}
}

// Listen subscribes id to channelName and prints every message until ctx is
// done or the subscription is rejected or dropped.
func Listen(ctx context.Context, w io.Writer, registry *socket.Registry, channelName string, id socket.Identity, params map[string]string) error {
	channel := registry.Channel(channelName, staticParams(params), nil)
	p := &printer{w: w, now: time.Now}
	s := newStop()

	if err := channel.Subscribe(id, watchHandlers(channelName, p, s)); err != nil {
		return err
	}
	defer channel.Unsubscribe(id, nil)

	select {
	case <-ctx.Done():
		return nil
	case err := <-s.ch:
		return err
	}
}

// confirmPoll is how often Send checks whether the subscription settled.
const confirmPoll = 20 * time.Millisecond

// Send subscribes id to channelName, waits for the server to confirm, performs
// action with data and unsubscribes again.
func Send(ctx context.Context, w io.Writer, registry *socket.Registry, channelName string, id socket.Identity, action string, data map[string]any, params map[string]string) error {
	channel := registry.Channel(channelName, staticParams(params), nil)
	p := &printer{w: w, now: time.Now}
	s := newStop()

	if err := channel.Subscribe(id, watchHandlers(channelName, p, s)); err != nil {
		return err
	}
	defer channel.Unsubscribe(id, nil)

	ticker := time.NewTicker(confirmPoll)
	defer ticker.Stop()
	for {
		if state, ok := channel.State(id); ok && state == socket.StateConnected {
			break
		}
		select {
		case <-ctx.Done():
			return errors.NewTransportError("confirm subscription", channelName, ctx.Err())
		case err := <-s.ch:
			return err
		case <-ticker.C:
		}
	}

	channel.Send(action, id, data)
	fmt.Fprintf(w, "%s %s %s\n", successStyle.Render("sent"), action, titleStyle.Render(channelName))
	return nil
}

// ParseData decodes the optional JSON object argument of send.
func ParseData(arg string) (map[string]any, error) {
	if arg == "" {
		return nil, nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(arg), &data); err != nil {
		return nil, errors.NewValidationError("data", "expected a JSON object", arg)
	}
	return data, nil
}

// RenderError formats err for the terminal.
func RenderError(err error) string {
	return errorStyle.Render("error:") + " " + err.Error()
}
