package eventfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mediaspawn/spawner-go/internal/config"
)

func TestClientStatusDeduplicatesTransitions(t *testing.T) {
	t.Parallel()

	var got []bool
	c := NewClient(config.DefaultEventFeedSettings(), nil)
	c.SetStatusCallback(func(connected bool) { got = append(got, connected) })

	c.reportStatus(false)
	c.reportStatus(false)
	c.reportStatus(true)
	c.reportStatus(true)
	c.reportStatus(false)

	want := []bool{false, true, false}
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", got, want)
		}
	}
}

func TestClientReportsStatusAcrossReconnect(t *testing.T) {
	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	defer srv.Close()

	settings := config.DefaultEventFeedSettings()
	settings.URL = "ws" + strings.TrimPrefix(srv.URL, "http")
	settings.ReconnectDelaySeconds = 1

	status := make(chan bool, 8)
	client := NewClient(settings, nil)
	client.SetStatusCallback(func(connected bool) { status <- connected })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)
	defer client.Stop()

	waitStatus := func(want bool) {
		t.Helper()
		select {
		case got := <-status:
			if got != want {
				t.Fatalf("status = %v, want %v", got, want)
			}
		case <-time.After(10 * time.Second):
			t.Fatalf("timed out waiting for status %v", want)
		}
	}

	waitStatus(true)
	if !client.IsConnected() {
		t.Fatal("IsConnected() = false after connect")
	}

	// Dropping the server side of the connection must surface a single
	// disconnect, then a reconnect once the client retries.
	conn := <-serverConns
	conn.Close()
	waitStatus(false)
	waitStatus(true)
}
