package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversToConnectedClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	client := &Client{hub: h, send: make(chan []byte, 1)}
	h.register <- client
	require.Eventually(t, func() bool { return h.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	require.NoError(t, h.Broadcast("library:changed", map[string]string{"section": "playlists"}))

	select {
	case data := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "library:changed", msg.Type)
		assert.NotEmpty(t, msg.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	h.unregister <- client
	assert.Eventually(t, func() bool { return h.ClientCount() == 0 },
		time.Second, 10*time.Millisecond)
}

func TestBroadcastEvictsSlowClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	// No reader on an unbuffered channel, so the first broadcast
	// cannot deliver and must evict.
	slow := &Client{hub: h, send: make(chan []byte)}
	h.register <- slow
	require.Eventually(t, func() bool { return h.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	// Hammer ClientCount while the eviction runs; the counts must stay
	// consistent with the map mutations in the broadcast path.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			n := h.ClientCount()
			if n < 0 || n > 1 {
				t.Errorf("inconsistent client count %d", n)
				return
			}
		}
	}()

	require.NoError(t, h.Broadcast("library:changed", map[string]string{"section": "watchlist"}))

	assert.Eventually(t, func() bool { return h.ClientCount() == 0 },
		time.Second, 10*time.Millisecond)
	<-done

	_, open := <-slow.send
	assert.False(t, open, "evicted client's send channel is closed")
}
