package broadcast

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

// subscribe registers an in-process client without a socket.
func subscribe(t *testing.T, hub *Hub, matchID uint) *Client {
	t.Helper()
	client := &Client{ID: t.Name(), MatchID: matchID, Send: make(chan []byte, 8), Hub: hub}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.ConnectionCount(matchID) > 0 }, time.Second, 5*time.Millisecond)
	return client
}

func receive(t *testing.T, client *Client) []byte {
	t.Helper()
	select {
	case data := <-client.Send:
		return data
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestHubDeliversOnlyToMatchSubscribers(t *testing.T) {
	hub := startHub(t)
	ctx := context.Background()
	five := subscribe(t, hub, 5)
	six := subscribe(t, hub, 6)

	require.NoError(t, hub.Publish(ctx, match.NewEvent(match.EventBallRecorded, 5, 9, nil)))

	var got match.Event
	require.NoError(t, json.Unmarshal(receive(t, five), &got))
	assert.Equal(t, match.EventBallRecorded, got.Type)
	assert.Equal(t, uint(5), got.MatchID)
	assert.Equal(t, uint(9), got.InningsID)

	select {
	case <-six.Send:
		t.Fatal("subscriber of another match received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregister(t *testing.T) {
	hub := startHub(t)
	client := subscribe(t, hub, 5)

	hub.unregister <- client
	require.Eventually(t, func() bool { return hub.ConnectionCount(5) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-client.Send
	assert.False(t, open)
}

func TestHubStopped(t *testing.T) {
	hub := NewHub(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	err := hub.Publish(context.Background(), match.NewEvent(match.EventMatchStarted, 1, 0, nil))
	assert.ErrorIs(t, err, ErrHubStopped)
}

func TestHandleWebSocket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)
	r := gin.New()
	r.GET("/ws/matches/:id", hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/matches/12"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount(12) == 1 }, time.Second, 5*time.Millisecond)

	payload := match.MatchPayload{Match: &match.Match{Venue: "Eden Gardens"}}
	require.NoError(t, hub.Publish(context.Background(), match.NewEvent(match.EventMatchStarted, 12, 0, payload)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got struct {
		Type    match.EventType    `json:"type"`
		MatchID uint               `json:"match_id"`
		Payload match.MatchPayload `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, match.EventMatchStarted, got.Type)
	assert.Equal(t, uint(12), got.MatchID)
	require.NotNil(t, got.Payload.Match)
	assert.Equal(t, "Eden Gardens", got.Payload.Match.Venue)

	t.Run("bad match id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/ws/matches/abc", nil))
		assert.Equal(t, 400, rec.Code)
	})
}
