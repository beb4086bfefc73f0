package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestHub stands up an httptest server that registers every connection
// for userID and dials it once.
func dialTestHub(t *testing.T, hub *Hub, userID uint) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.Serve(w, r, userID); err != nil {
			t.Errorf("serve: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestPushConcurrentWriters(t *testing.T) {
	hub := NewHub()
	conn := dialTestHub(t, hub, 1)

	// Overlapping security-event fan-out and request-path notifications
	// push to the same connection from separate goroutines. Writes must
	// serialize per connection; gorilla panics on concurrent writers.
	const writers = 32
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(seq int) {
			defer wg.Done()
			hub.Push(1, map[string]int{"seq": seq})
		}(i)
	}
	wg.Wait()

	received := 0
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for received < writers {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
		received++
	}
	assert.Equal(t, writers, received)
}

func TestPushToMultipleConnections(t *testing.T) {
	hub := NewHub()
	first := dialTestHub(t, hub, 7)
	second := dialTestHub(t, hub, 7)

	hub.Push(7, map[string]string{"title": "hello"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var payload map[string]string
		require.NoError(t, conn.ReadJSON(&payload))
		assert.Equal(t, "hello", payload["title"])
	}
}

func TestOnlineTracksConnectionLifecycle(t *testing.T) {
	hub := NewHub()

	assert.False(t, hub.Online(3))

	conn := dialTestHub(t, hub, 3)
	require.Eventually(t, func() bool { return hub.Online(3) }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return !hub.Online(3) }, 2*time.Second, 10*time.Millisecond)
}

func TestPushToOfflineUserIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Push(99, map[string]string{"title": "nobody home"})
	assert.False(t, hub.Online(99))
}
