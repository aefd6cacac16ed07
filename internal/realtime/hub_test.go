package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"caretrek-backend/pkg/logger"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func dialHub(t *testing.T, hub *Hub, userID int) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleConnection(w, r, userID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial(strings.Replace(srv.URL, "http", "ws", 1), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	waitFor(t, func() bool { return hub.Connected(userID) })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSendReachesEveryClientSocket(t *testing.T) {
	hub := NewHub()
	first := dialHub(t, hub, 7)
	second := dialHub(t, hub, 7)

	if !hub.Send(7, "emergency_alert", map[string]string{"type": "fall_detected"}) {
		t.Fatal("Send should report delivery to an online user")
	}

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Type != "emergency_alert" {
			t.Errorf("event type = %q", ev.Type)
		}
	}
}

func TestSendToOfflineUser(t *testing.T) {
	hub := NewHub()
	if hub.Send(42, "emergency_alert", nil) {
		t.Error("Send should report no delivery when the user has no sockets")
	}
	if hub.Connected(42) {
		t.Error("user should not be connected")
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, 9)

	conn.Close()
	waitFor(t, func() bool { return !hub.Connected(9) })

	if hub.Send(9, "connection_request", nil) {
		t.Error("Send should report no delivery after disconnect")
	}
}
