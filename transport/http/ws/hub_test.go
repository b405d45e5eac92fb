package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hotel/shared/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockClient(hub *Hub, topics string) *Client {
	return &Client{
		hub:    hub,
		topics: parseTopics(topics),
		send:   make(chan []byte, sendBuffer),
	}
}

func receive(t *testing.T, client *Client) (event.Event, bool) {
	t.Helper()

	select {
	case message := <-client.send:
		var evt event.Event
		require.NoError(t, json.Unmarshal(message, &evt))

		return evt, true
	case <-time.After(100 * time.Millisecond):
		return event.Event{}, false
	}
}

func TestHub_BroadcastRespectsTopics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	everything := mockClient(hub, "")
	ordersOnly := mockClient(hub, "order, table")

	hub.register <- everything
	hub.register <- ordersOnly

	assert.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 10*time.Millisecond)

	booking := event.New(event.BookingCreated, "booking", "bk-1", "admin", nil)
	require.NoError(t, hub.Publish(ctx, booking))

	got, ok := receive(t, everything)
	assert.True(t, ok)
	assert.Equal(t, booking.ID, got.ID)

	_, ok = receive(t, ordersOnly)
	assert.False(t, ok)

	order := event.New(event.OrderCreated, "order", "od-1", "staff", nil)
	require.NoError(t, hub.Publish(ctx, order))

	got, ok = receive(t, ordersOnly)
	assert.True(t, ok)
	assert.Equal(t, event.OrderCreated, got.Type)
}

func TestHub_Unregister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	client := mockClient(hub, "")
	hub.register <- client
	hub.unregister <- client

	assert.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestParseTopics(t *testing.T) {
	assert.Empty(t, parseTopics(""))
	assert.Len(t, parseTopics("booking, ,order"), 2)
}
