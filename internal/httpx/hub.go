package httpx

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tic_tac_chec/internal/session"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsSendBuffer       = 16
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub fans session updates out to every connected websocket client.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	broadcast chan wsMessage
}

type client struct {
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*client]struct{}),
		broadcast: make(chan wsMessage, 32),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				c.sendJSON(msg)
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues u for broadcast. Updates are dropped when the queue is full.
func (h *Hub) Publish(u session.Update) {
	select {
	case h.broadcast <- wsMessage{Type: "update", Payload: mustMarshal(u)}:
	default:
		log.Printf("[server] websocket broadcast queue full, dropping update")
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{send: make(chan []byte, wsSendBuffer)}
	s.hub.register(c)
	c.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(s.ctrl.Status())})

	go func() {
		defer conn.Close()
		_ = writeWSWithHeartbeat(conn, c.send)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.hub.unregister(c)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_state":
			c.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(s.ctrl.Status())})
		case "request_stats":
			c.sendJSON(wsMessage{Type: "stats", Payload: mustMarshal(s.stats.Snapshot())})
		}
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
