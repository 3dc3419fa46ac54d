package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerTracksAndClosesUserStreams(t *testing.T) {
	mgr := NewManager()
	var cancelled atomic.Int32
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		userID := uint(1)
		if r.URL.Query().Get("u") == "2" {
			userID = 2
		}
		mgr.Register(userID, conn, func() { cancelled.Add(1) })
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	dial := func(q string) *websocket.Conn {
		c, _, err := websocket.DefaultDialer.Dial(url+"?u="+q, nil)
		require.NoError(t, err)
		return c
	}
	a := dial("1")
	defer a.Close()
	b := dial("1")
	defer b.Close()
	c := dial("2")
	defer c.Close()

	require.Eventually(t, func() bool { return mgr.Count() == 3 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, mgr.IsConnected(1))
	assert.ElementsMatch(t, []uint{1, 2}, mgr.List())

	assert.Equal(t, 2, mgr.CloseUser(1))
	assert.False(t, mgr.IsConnected(1))
	assert.Equal(t, 1, mgr.Count())
	assert.Equal(t, int32(2), cancelled.Load())

	_ = a.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := a.ReadMessage()
	assert.Error(t, err)

	assert.Zero(t, mgr.CloseUser(1))
}

func TestUnregisterUnknownIsNoop(t *testing.T) {
	mgr := NewManager()
	mgr.Unregister(5, nil)
	assert.Zero(t, mgr.Count())
}
