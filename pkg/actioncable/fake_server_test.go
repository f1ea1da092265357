package actioncable

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DeBrosOfficial/cable/pkg/contracts"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// fakeCable is a minimal ActionCable server. It greets every connection,
// confirms subscriptions unless told to reject them and records the commands
// it receives.
type fakeCable struct {
	t      *testing.T
	server *httptest.Server

	mu      sync.Mutex
	reject  map[string]bool
	headers []http.Header
	conns   chan *serverConn
}

type serverConn struct {
	ws       *websocket.Conn
	commands chan command
	writeMu  sync.Mutex
}

func newFakeCable(t *testing.T) *fakeCable {
	t.Helper()
	f := &fakeCable{
		t:      t,
		reject: make(map[string]bool),
		conns:  make(chan *serverConn, 8),
	}

	upgrader := websocket.Upgrader{
		Subprotocols: []string{ProtocolJSON},
		CheckOrigin:  func(r *http.Request) bool { return true },
	}

	r := chi.NewRouter()
	r.Get("/cable", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.headers = append(f.headers, req.Header.Clone())
		f.mu.Unlock()

		ws, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		sc := &serverConn{ws: ws, commands: make(chan command, 32)}
		f.conns <- sc
		sc.write(map[string]any{"type": typeWelcome})
		go f.serve(sc)
	})

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeCable) url() string {
	return "ws" + strings.TrimPrefix(f.server.URL, "http") + "/cable"
}

func (f *fakeCable) rejectIdentifier(identifier string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reject[identifier] = true
}

func (f *fakeCable) header(i int) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers[i]
}

func (f *fakeCable) serve(sc *serverConn) {
	defer close(sc.commands)
	for {
		var cmd command
		if err := sc.ws.ReadJSON(&cmd); err != nil {
			return
		}
		if cmd.Command == commandSubscribe {
			f.mu.Lock()
			rejected := f.reject[cmd.Identifier]
			f.mu.Unlock()
			if rejected {
				sc.write(map[string]any{"type": typeReject, "identifier": cmd.Identifier})
			} else {
				sc.write(map[string]any{"type": typeConfirm, "identifier": cmd.Identifier})
			}
		}
		sc.commands <- cmd
	}
}

func (f *fakeCable) nextConn() *serverConn {
	f.t.Helper()
	select {
	case sc := <-f.conns:
		return sc
	case <-time.After(waitTimeout):
		f.t.Fatal("no connection arrived")
		return nil
	}
}

func (sc *serverConn) write(v any) {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	_ = sc.ws.WriteJSON(v)
}

func (sc *serverConn) broadcast(identifier string, message string) {
	sc.write(map[string]any{"identifier": identifier, "message": json.RawMessage(message)})
}

func (sc *serverConn) next(t *testing.T) command {
	t.Helper()
	select {
	case cmd, ok := <-sc.commands:
		require.True(t, ok, "connection closed")
		return cmd
	case <-time.After(waitTimeout):
		t.Fatal("no command arrived")
		return command{}
	}
}

// recorder turns callbacks into channels.
type recorder struct {
	received     chan json.RawMessage
	connected    chan struct{}
	disconnected chan struct{}
	rejected     chan struct{}
}

func newRecorder() *recorder {
	return &recorder{
		received:     make(chan json.RawMessage, 16),
		connected:    make(chan struct{}, 16),
		disconnected: make(chan struct{}, 16),
		rejected:     make(chan struct{}, 16),
	}
}

func (r *recorder) callbacks() contracts.Callbacks {
	return contracts.Callbacks{
		Received:     func(m json.RawMessage) { r.received <- m },
		Connected:    func() { r.connected <- struct{}{} },
		Disconnected: func() { r.disconnected <- struct{}{} },
		Rejected:     func() { r.rejected <- struct{}{} },
	}
}

func waitSignal(t *testing.T, ch chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func waitMessage(t *testing.T, ch chan json.RawMessage) json.RawMessage {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}
