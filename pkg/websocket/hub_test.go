package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHub() *Hub {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	return hub
}

func slowClient(userID, topic string) *Client {
	return &Client{
		Send:   make(chan []byte, 1),
		UserID: userID,
		Topic:  topic,
	}
}

// Register, broadcast and unregister all flow through the single Run loop,
// so once a later send on one of its channels is accepted the earlier one
// has been fully processed.
func TestHub_BroadcastDropsSlowConsumerEverywhere(t *testing.T) {
	hub := newTestHub()
	topic := "demand:demand-1"

	slow := slowClient("user-1", topic)
	hub.Register <- slow
	slow.Send <- []byte("stall")

	require.NoError(t, hub.Broadcast(map[string]string{"demandId": "demand-1"}, "new_demand"))
	require.NoError(t, hub.Broadcast(map[string]string{"demandId": "demand-1"}, "new_demand"))

	assert.NotPanics(t, func() {
		assert.NoError(t, hub.PublishToTopic(topic, map[string]string{"state": "TAKEN"}, "demand_event"))
		assert.NoError(t, hub.SendMessageToUser("user-1", map[string]string{"state": "TAKEN"}, "demand_event"))
	})

	// the dropped client's channel was closed after the buffered message
	assert.Equal(t, []byte("stall"), <-slow.Send)
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHub_TopicDeliveryAfterSiblingDropped(t *testing.T) {
	hub := newTestHub()
	topic := "demand:demand-2"

	slow := slowClient("user-1", topic)
	healthy := &Client{Send: make(chan []byte, 8), UserID: "user-2", Topic: topic}
	hub.Register <- slow
	hub.Register <- healthy
	slow.Send <- []byte("stall")

	require.NoError(t, hub.Broadcast(map[string]string{"demandId": "demand-2"}, "new_demand"))
	require.NoError(t, hub.Broadcast(map[string]string{"demandId": "demand-2"}, "new_demand"))

	// healthy got both broadcasts
	<-healthy.Send
	<-healthy.Send

	require.NoError(t, hub.PublishToTopic(topic, map[string]string{"state": "TAKEN"}, "demand_event"))

	select {
	case msg := <-healthy.Send:
		assert.NotEmpty(t, msg)
	case <-time.After(time.Second):
		t.Fatal("expected topic delivery to the remaining client")
	}
}

func TestHub_UnregisterTwiceIsSafe(t *testing.T) {
	hub := newTestHub()

	client := slowClient("user-3", "")
	hub.Register <- client

	assert.NotPanics(t, func() {
		hub.unregister <- client
		hub.unregister <- client
		// fence so both unregisters were processed
		require.NoError(t, hub.Broadcast(map[string]string{}, "new_demand"))
		require.NoError(t, hub.Broadcast(map[string]string{}, "new_demand"))
	})
}
