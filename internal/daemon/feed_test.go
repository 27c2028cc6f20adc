package daemon

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"studypulse/internal/logging"
	"studypulse/internal/sessions"
)

func TestFeedPublishNeverBlocks(t *testing.T) {
	feed := NewFeed(logging.NewNop())
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer*2; i++ {
			feed.Publish(sessions.Record{ID: "x"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked with a full backlog")
	}
	if got := len(feed.broadcast); got != sendBuffer {
		t.Fatalf("expected backlog capped at %d, got %d", sendBuffer, got)
	}
}

func TestFeedShutdownClosesClients(t *testing.T) {
	feed := NewFeed(logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		feed.Run(ctx)
		close(finished)
	}()

	client := &feedClient{feed: feed, send: make(chan FeedMessage, 1)}
	feed.register <- client
	feed.broadcast <- FeedMessage{Type: MessageTypeSession}

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeSession {
			t.Fatalf("unexpected message %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}

	cancel()
	<-finished
	if _, ok := <-client.send; ok {
		t.Fatal("expected client channel closed on shutdown")
	}
	if feed.Clients() != 0 {
		t.Fatalf("expected no clients after shutdown, got %d", feed.Clients())
	}
}

func runFeed(t *testing.T) *Feed {
	t.Helper()
	feed := NewFeed(logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		feed.Run(ctx)
		close(finished)
	}()
	t.Cleanup(func() {
		cancel()
		<-finished
	})
	return feed
}

func TestFeedPongAfterSlowClientDropped(t *testing.T) {
	feed := runFeed(t)

	slow := &feedClient{feed: feed, send: make(chan FeedMessage, 1)}
	feed.register <- slow
	feed.broadcast <- FeedMessage{Type: MessageTypeSession}
	feed.broadcast <- FeedMessage{Type: MessageTypeSession}

	deadline := time.Now().Add(2 * time.Second)
	for feed.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(10 * time.Millisecond)
	}

	feed.pong <- slow
	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Fatal("expected dropped client channel closed")
	}

	live := &feedClient{feed: feed, send: make(chan FeedMessage, 1)}
	feed.register <- live
	feed.pong <- live
	select {
	case msg := <-live.send:
		if msg.Type != MessageTypePong {
			t.Fatalf("expected pong, got %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pong not delivered")
	}
}

func TestFeedPingFromDroppedWebsocketClient(t *testing.T) {
	feed := runFeed(t)
	server := httptest.NewServer(feed)
	t.Cleanup(server.Close)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	// Never reads, so its socket buffers fill and the hub drops it.
	stalled, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer stalled.Close()

	deadline := time.Now().Add(5 * time.Second)
	for feed.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	big := sessions.Record{ID: strings.Repeat("x", 256*1024)}
	deadline = time.Now().Add(20 * time.Second)
	for feed.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("stalled client was not dropped")
		}
		feed.Publish(big)
		time.Sleep(time.Millisecond)
	}

	_ = stalled.SetWriteDeadline(time.Now().Add(time.Second))
	_ = stalled.WriteJSON(FeedMessage{Type: MessageTypePing})
	time.Sleep(100 * time.Millisecond)

	fresh, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial after drop: %v", err)
	}
	defer fresh.Close()
	if err := fresh.WriteJSON(FeedMessage{Type: MessageTypePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	_ = fresh.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg FeedMessage
		if err := fresh.ReadJSON(&msg); err != nil {
			t.Fatalf("read pong: %v", err)
		}
		if msg.Type == MessageTypePong {
			return
		}
	}
}
