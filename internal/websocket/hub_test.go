package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/event"
)

func TestHub_BroadcastsBusEvents(t *testing.T) {
	bus := event.NewBus()
	hub := NewHub(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	upgrader := Upgrader(nil)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, hub.Serve(upgrader, w, r, "admin1"))
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	bus.Publish(event.New(event.TypeRestaurantArchived, map[string]string{"original_id": "r1"}, "admin1"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var got event.Event
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, event.TypeRestaurantArchived, got.Type)
	assert.Equal(t, "admin1", got.ActorID)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestUpgrader_CheckOrigin(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://evil.example")

	assert.True(t, Upgrader(nil).CheckOrigin(req))
	assert.False(t, Upgrader([]string{"https://descubreboyaca.co"}).CheckOrigin(req))
	assert.True(t, Upgrader([]string{"*"}).CheckOrigin(req))

	req.Header.Set("Origin", "https://descubreboyaca.co")
	assert.True(t, Upgrader([]string{"https://descubreboyaca.co"}).CheckOrigin(req))
}
