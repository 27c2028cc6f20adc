package daemon

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"studypulse/internal/logging"
	"studypulse/internal/metrics"
	"studypulse/internal/sessions"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 256
)

// Feed message types.
const (
	MessageTypeSession = "session"
	MessageTypePing    = "ping"
	MessageTypePong    = "pong"
)

// FeedMessage is one frame on the session feed.
type FeedMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Feed pushes newly recorded sessions to websocket subscribers.
type Feed struct {
	logger     *slog.Logger
	upgrader   websocket.Upgrader
	register   chan *feedClient
	unregister chan *feedClient
	pong       chan *feedClient
	broadcast  chan FeedMessage
	done       chan struct{}
	closeOnce  sync.Once

	mu      sync.RWMutex
	clients map[*feedClient]struct{}
}

type feedClient struct {
	feed *Feed
	conn *websocket.Conn
	// send is written and closed only by the Run goroutine.
	send chan FeedMessage
}

// NewFeed constructs an idle feed. Call Run to start delivering messages.
func NewFeed(logger *slog.Logger) *Feed {
	return &Feed{
		logger: logging.NewComponentLogger(logger, "session-feed"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
		},
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		pong:       make(chan *feedClient),
		broadcast:  make(chan FeedMessage, sendBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*feedClient]struct{}),
	}
}

// Run delivers messages until ctx is cancelled, then disconnects every client.
func (f *Feed) Run(ctx context.Context) {
	defer f.shutdown()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-f.register:
			f.add(client)
		case client := <-f.unregister:
			f.remove(client)
		case client := <-f.pong:
			f.reply(client, FeedMessage{Type: MessageTypePong})
		case msg := <-f.broadcast:
			f.deliver(msg)
		}
	}
}

// Publish queues a recorded session for delivery. It never blocks; when the
// queue is full the message is dropped.
func (f *Feed) Publish(record sessions.Record) {
	select {
	case f.broadcast <- FeedMessage{Type: MessageTypeSession, Data: record}:
	default:
		logging.WarnEvent(f.logger, "session feed backlog full; dropping message", "feed_backlog",
			logging.String(logging.FieldSessionID, record.ID))
	}
}

// Clients returns the number of connected subscribers.
func (f *Feed) Clients() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// ServeHTTP upgrades the request and subscribes the connection.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Debug("websocket upgrade failed", logging.Error(err))
		return
	}
	client := &feedClient{feed: f, conn: conn, send: make(chan FeedMessage, sendBuffer)}
	select {
	case f.register <- client:
	case <-f.done:
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

func (f *Feed) add(client *feedClient) {
	f.mu.Lock()
	f.clients[client] = struct{}{}
	total := len(f.clients)
	f.mu.Unlock()
	metrics.FeedClients.Set(float64(total))
	f.logger.Info("feed client connected", logging.Int("total_clients", total))
}

func (f *Feed) remove(client *feedClient) {
	f.mu.Lock()
	if _, ok := f.clients[client]; ok {
		delete(f.clients, client)
		close(client.send)
	}
	total := len(f.clients)
	f.mu.Unlock()
	metrics.FeedClients.Set(float64(total))
	f.logger.Info("feed client disconnected", logging.Int("total_clients", total))
}

// reply queues msg for one client if it is still subscribed.
func (f *Feed) reply(client *feedClient, msg FeedMessage) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if _, ok := f.clients[client]; !ok {
		return
	}
	select {
	case client.send <- msg:
	default:
	}
}

func (f *Feed) deliver(msg FeedMessage) {
	f.mu.RLock()
	var slow []*feedClient
	for client := range f.clients {
		select {
		case client.send <- msg:
		default:
			slow = append(slow, client)
		}
	}
	f.mu.RUnlock()
	for _, client := range slow {
		f.logger.Warn("feed client too slow; disconnecting")
		f.remove(client)
	}
}

func (f *Feed) shutdown() {
	f.closeOnce.Do(func() { close(f.done) })
	f.mu.Lock()
	for client := range f.clients {
		delete(f.clients, client)
		close(client.send)
	}
	f.mu.Unlock()
	metrics.FeedClients.Set(0)
}

func (c *feedClient) readPump() {
	defer func() {
		select {
		case c.feed.unregister <- c:
		case <-c.feed.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg FeedMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.feed.logger.Debug("unexpected websocket close", logging.Error(err))
			}
			return
		}
		if msg.Type == MessageTypePing {
			select {
			case c.feed.pong <- c:
			case <-c.feed.done:
				return
			}
		}
	}
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
