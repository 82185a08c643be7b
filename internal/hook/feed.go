package hook

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Message is one change notification pushed to feed subscribers. Entity
// names the kind of slice that was refreshed ("issue", "repositories",
// "cards") and Key identifies it.
type Message struct {
	Entity string    `json:"entity"`
	Key    string    `json:"key"`
	Time   time.Time `json:"time"`
}

// Feed fans mirror change notifications out to WebSocket subscribers.
// Publish never blocks the sync loop: a full buffer drops the message, a
// slow client gets disconnected.
type Feed struct {
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast chan Message

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewFeed creates a feed and starts its broadcast loop
func NewFeed(logger *log.Logger) *Feed {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f := &Feed{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Message, 100),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
	f.wg.Add(1)
	go f.broadcastLoop()
	return f
}

// Publish queues a notification for broadcast. Safe to call from any
// goroutine; it never blocks.
func (f *Feed) Publish(entity, key string) {
	msg := Message{Entity: entity, Key: key, Time: time.Now().UTC()}
	select {
	case f.broadcast <- msg:
	case <-f.ctx.Done():
	default:
		f.logger.Printf("feed buffer full, dropping %s %s", entity, key)
	}
}

func (f *Feed) broadcastLoop() {
	defer f.wg.Done()

	for {
		select {
		case <-f.ctx.Done():
			return

		case msg := <-f.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				f.logger.Printf("failed to marshal feed message: %v", err)
				continue
			}

			f.clientsMu.RLock()
			clients := make([]*websocket.Conn, 0, len(f.clients))
			for conn := range f.clients {
				clients = append(clients, conn)
			}
			f.clientsMu.RUnlock()

			for _, conn := range clients {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					f.logger.Printf("failed to send to feed client: %v", err)
					f.removeClient(conn)
				}
			}
		}
	}
}

// ServeWS upgrades the request to a WebSocket subscription. The first
// message on every connection is a welcome notification.
func (f *Feed) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		f.logger.Printf("websocket upgrade failed: %v", err)
		return
	}

	f.clientsMu.Lock()
	f.clients[conn] = true
	clientCount := len(f.clients)
	f.clientsMu.Unlock()

	f.logger.Printf("feed client connected (total: %d)", clientCount)

	welcome := Message{Entity: "feed", Key: "connected", Time: time.Now().UTC()}
	welcomeData, _ := json.Marshal(welcome)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = conn.Write(ctx, websocket.MessageText, welcomeData)
	cancel()

	go f.readLoop(conn)
}

// readLoop drains client frames so pings are answered and disconnects are
// noticed. Incoming content is ignored.
func (f *Feed) readLoop(conn *websocket.Conn) {
	defer f.removeClient(conn)

	for {
		if _, _, err := conn.Read(f.ctx); err != nil {
			return
		}
	}
}

func (f *Feed) removeClient(conn *websocket.Conn) {
	f.clientsMu.Lock()
	if _, exists := f.clients[conn]; exists {
		delete(f.clients, conn)
		clientCount := len(f.clients)
		f.clientsMu.Unlock()

		_ = conn.Close(websocket.StatusNormalClosure, "")
		f.logger.Printf("feed client disconnected (total: %d)", clientCount)
	} else {
		f.clientsMu.Unlock()
	}
}

// ClientCount returns the number of connected subscribers
func (f *Feed) ClientCount() int {
	f.clientsMu.RLock()
	defer f.clientsMu.RUnlock()
	return len(f.clients)
}

// Close disconnects every subscriber and stops the broadcast loop
func (f *Feed) Close() {
	f.cancel()

	f.clientsMu.Lock()
	for conn := range f.clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(f.clients, conn)
	}
	f.clientsMu.Unlock()

	f.wg.Wait()
}
