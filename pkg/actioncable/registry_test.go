package actioncable

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DeBrosOfficial/cable/pkg/contracts"
	"github.com/DeBrosOfficial/cable/pkg/socket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teamChannelParams(id socket.Identity) contracts.Params {
	return contracts.Params{"id": string(id)}
}

func TestRegistryOverCable(t *testing.T) {
	cable := newFakeCable(t)
	consumer := NewConsumer(cable.url())
	t.Cleanup(consumer.Disconnect)

	updates := make(chan json.RawMessage, 4)
	channel := socket.NewRegistry(consumer, nil).Channel("TeamChannel", teamChannelParams, nil)
	err := channel.Subscribe("1", socket.Handlers{
		OnMessage: socket.Nothing,
		OnUpdate: func(v any) bool {
			updates <- v.(json.RawMessage)
			return true
		},
		OnUnauthorized:    func(string) {},
		OnUnauthenticated: func(string) {},
	})
	require.NoError(t, err)

	sc := cable.nextConn()
	assert.Equal(t, commandSubscribe, sc.next(t).Command)

	// Confirmation hydrates.
	hydrate := sc.next(t)
	assert.Equal(t, commandMessage, hydrate.Command)
	assert.Equal(t, teamIdentifier, hydrate.Identifier)
	assert.JSONEq(t, `{"action":"hydrate"}`, hydrate.Data)

	sc.broadcast(teamIdentifier, `{"type":"ping"}`)
	sc.broadcast(teamIdentifier, `{"update":{"id":1,"name":"Storm"}}`)
	select {
	case v := <-updates:
		assert.JSONEq(t, `{"id":1,"name":"Storm"}`, string(v))
	case <-time.After(waitTimeout):
		t.Fatal("update not dispatched")
	}

	channel.Send("rename", "1", map[string]any{"name": "Calm"})
	assert.JSONEq(t, `{"action":"rename","name":"Calm"}`, sc.next(t).Data)

	channel.Unsubscribe("1", nil)
	assert.Equal(t, commandUnsubscribe, sc.next(t).Command)
	assert.False(t, consumer.Connected())
}

func TestRegistryOverCable_Rejected(t *testing.T) {
	cable := newFakeCable(t)
	cable.rejectIdentifier(teamIdentifier)
	consumer := NewConsumer(cable.url())
	t.Cleanup(consumer.Disconnect)

	explanations := make(chan string, 1)
	channel := socket.NewRegistry(consumer, nil).Channel("TeamChannel", teamChannelParams, nil)
	require.NoError(t, channel.Subscribe("1", socket.Handlers{
		OnMessage:         socket.Nothing,
		OnUnauthorized:    func(e string) { explanations <- e },
		OnUnauthenticated: func(string) {},
	}))
	cable.nextConn()

	select {
	case e := <-explanations:
		assert.Equal(t, socket.ExplanationUnauthorized, e)
	case <-time.After(waitTimeout):
		t.Fatal("rejection not reported")
	}
	state, ok := channel.State("1")
	require.True(t, ok)
	assert.Equal(t, socket.StateRejected, state)
}
