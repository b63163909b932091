package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestSubscribeNotifications_CancelReturnsNil(t *testing.T) {
	t.Parallel()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(map[string]any{"type": "connected", "message": "ok", "user_id": 1})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithHeartbeatInterval(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan Notification, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.SubscribeNotifications(ctx, "ext1", func(n Notification) {
			select {
			case got <- n:
			default:
			}
		})
	}()

	select {
	case n := <-got:
		if n.Type != "connected" || n.UserID != 1 {
			t.Fatalf("unexpected notification %+v", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil after cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SubscribeNotifications did not return after cancel")
	}
}
