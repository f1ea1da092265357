package socket

import (
	"encoding/json"
	"testing"

	"github.com/DeBrosOfficial/cable/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscribeTo(t *testing.T, message string, h Handlers) {
	t.Helper()
	registry := NewRegistry(nil, nil)
	channel := registry.Channel("Dispatch", idParams, deliveringTransport(message))
	require.NoError(t, channel.Subscribe("1", testHandlers(h)))
}

func TestDispatch_PassesMessagesToListener(t *testing.T) {
	onMessage := consuming()
	subscribeTo(t, `{"id":42}`, Handlers{OnMessage: onMessage.handle})

	require.Equal(t, 1, onMessage.calls())
	assert.JSONEq(t, `{"id":42}`, string(onMessage.last().(json.RawMessage)))
}

func TestDispatch_IgnoresPings(t *testing.T) {
	onMessage := consuming()
	subscribeTo(t, `{"type":"ping"}`, Handlers{OnMessage: onMessage.handle})
	subscribeTo(t, `{"type":"ping","message":1718000000}`, Handlers{OnMessage: onMessage.handle})

	assert.Equal(t, 0, onMessage.calls())
}

func TestDispatch_IgnoresAbsentMessages(t *testing.T) {
	onMessage := consuming()
	logger, logs := observedLogger()
	channel := NewRegistry(nil, logger).Channel("Undefined", idParams, deliveringTransport(""))
	require.NoError(t, channel.Subscribe("1", testHandlers(Handlers{OnMessage: onMessage.handle})))

	transport := deliveringTransport("null")
	require.NoError(t, NewRegistry(transport, logger).Channel("Null", idParams, nil).
		Subscribe("1", testHandlers(Handlers{OnMessage: onMessage.handle})))

	assert.Equal(t, 0, onMessage.calls())
	assert.Equal(t, 0, logs.FilterMessageSnippet("problem with").Len())
}

func TestDispatch_ConsumesRecordMessages(t *testing.T) {
	tests := []struct {
		name    string
		message string
		pick    func(h *Handlers) *Handler
		payload string
	}{
		{"creates", `{"create":"create"}`, func(h *Handlers) *Handler { return &h.OnCreate }, `"create"`},
		{"updates", `{"update":"update"}`, func(h *Handlers) *Handler { return &h.OnUpdate }, `"update"`},
		{"deletions", `{"destroy":"delete"}`, func(h *Handlers) *Handler { return &h.OnDelete }, `"delete"`},
		{"nested records", `{"update":{"id":7,"name":"Storm"}}`, func(h *Handlers) *Handler { return &h.OnUpdate }, `{"id":7,"name":"Storm"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specific := consuming()
			onMessage := declining()
			h := Handlers{OnMessage: onMessage.handle}
			*tt.pick(&h) = specific.handle

			subscribeTo(t, tt.message, h)

			require.Equal(t, 1, specific.calls())
			assert.JSONEq(t, tt.payload, string(specific.last().(json.RawMessage)))
			assert.Equal(t, 0, onMessage.calls())
		})
	}
}

func TestDispatch_ConsumesErrors(t *testing.T) {
	onError := consuming()
	onMessage := declining()
	subscribeTo(t, `{"error":"team not found"}`, Handlers{OnError: onError.handle, OnMessage: onMessage.handle})

	require.Equal(t, 1, onError.calls())
	decoded, ok := onError.last().(messages.Error)
	require.True(t, ok)
	assert.Equal(t, "team not found", decoded.Error)
	assert.Equal(t, 0, onMessage.calls())
}

func TestDispatch_ErrorWinsOverCreate(t *testing.T) {
	onError := consuming()
	onCreate := consuming()
	subscribeTo(t, `{"error":"partial","create":{"id":1}}`, Handlers{OnError: onError.handle, OnCreate: onCreate.handle})

	assert.Equal(t, 1, onError.calls())
	assert.Equal(t, 0, onCreate.calls())
}

func TestDispatch_DecliningHandlerFallsThrough(t *testing.T) {
	onError := declining()
	onCreate := consuming()
	subscribeTo(t, `{"error":"partial","create":{"id":1}}`, Handlers{OnError: onError.handle, OnCreate: onCreate.handle})

	assert.Equal(t, 1, onError.calls())
	assert.Equal(t, 1, onCreate.calls())
}

func TestDispatch_MissingOptionalHandlerFallsBackToMessage(t *testing.T) {
	onMessage := consuming()
	subscribeTo(t, `{"destroy":"delete"}`, Handlers{OnMessage: onMessage.handle})

	require.Equal(t, 1, onMessage.calls())
	assert.JSONEq(t, `{"destroy":"delete"}`, string(onMessage.last().(json.RawMessage)))
}

func TestDispatch_ReplaceHasNoTrigger(t *testing.T) {
	onReplace := consuming()
	onMessage := consuming()
	subscribeTo(t, `{"replace":"replace"}`, Handlers{OnReplace: onReplace.handle, OnMessage: onMessage.handle})

	assert.Equal(t, 0, onReplace.calls())
	assert.Equal(t, 1, onMessage.calls())
}

func TestDispatch_ReportsUnhandledMessages(t *testing.T) {
	logger, logs := observedLogger()
	channel := NewRegistry(nil, logger).Channel("Unhandled", idParams, deliveringTransport(`{"id":42}`))

	require.NoError(t, channel.Subscribe("1", testHandlers(Handlers{})))

	entries := logs.FilterMessageSnippet(`problem with: {"id":42}`).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Unhandled", entries[0].ContextMap()["channel"])
}

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		kind    Kind
	}{
		{``, KindUnmatched},
		{`null`, KindUnmatched},
		{`{"type":"ping"}`, KindPing},
		{`{"error":"x"}`, KindError},
		{`{"create":1}`, KindCreate},
		{`{"update":1,"destroy":1}`, KindUpdate},
		{`{"destroy":1}`, KindDelete},
		{`{"replace":1}`, KindMessage},
		{`[1,2,3]`, KindMessage},
		{`{"create":null}`, KindMessage},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String()+" "+tt.message, func(t *testing.T) {
			assert.Equal(t, tt.kind, Classify(json.RawMessage(tt.message)).Kind)
		})
	}
}

func TestRulesOrder(t *testing.T) {
	var kinds []Kind
	for _, rule := range Rules() {
		kinds = append(kinds, rule.Kind)
	}
	assert.Equal(t, []Kind{KindError, KindCreate, KindUpdate, KindDelete}, kinds)
}

func TestDispatchResult(t *testing.T) {
	h := testHandlers(Handlers{OnUpdate: consuming().handle})

	assert.Equal(t, Result{Kind: KindUpdate, Consumed: true}, Dispatch(json.RawMessage(`{"update":1}`), h))
	assert.Equal(t, Result{Kind: KindPing, Consumed: true}, Dispatch(json.RawMessage(`{"type":"ping"}`), h))
	assert.Equal(t, Result{Kind: KindMessage}, Dispatch(json.RawMessage(`{"id":1}`), h))
}
