package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Envelope carries one document snapshot from a host to its viewers.
type Envelope struct {
	Type     string          `json:"type"`
	Host     string          `json:"host"`
	Seq      uint64          `json:"seq"`
	Document json.RawMessage `json:"document"`
}

const snapshotType = "snapshot"

// Hub is run by the sharing side. It keeps the latest snapshot and pushes
// every new one to all connected viewers.
type Hub struct {
	id       string
	upgrader websocket.Upgrader

	mu     sync.Mutex
	peers  map[*websocket.Conn]string
	latest *Envelope
}

func NewHub() *Hub {
	return &Hub{
		id:    uuid.NewString(),
		peers: make(map[*websocket.Conn]string),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Hub) ID() string { return h.id }

func (h *Hub) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Publish replaces the latest snapshot and sends it to every viewer.
func (h *Hub) Publish(doc []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	seq := uint64(1)
	if h.latest != nil {
		seq = h.latest.Seq + 1
	}
	h.latest = &Envelope{Type: snapshotType, Host: h.id, Seq: seq, Document: json.RawMessage(doc)}
	for conn, id := range h.peers {
		if err := h.send(conn); err != nil {
			log.Printf("[SHARE] dropping viewer %s: %v", id, err)
			delete(h.peers, conn)
			conn.Close()
		}
	}
}

// send must be called with h.mu held.
func (h *Hub) send(conn *websocket.Conn) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(h.latest)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SHARE] upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	id := uuid.NewString()

	h.mu.Lock()
	h.peers[conn] = id
	if h.latest != nil {
		if err := h.send(conn); err != nil {
			delete(h.peers, conn)
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.mu.Unlock()
	log.Printf("[SHARE] viewer %s connected from %s", id, r.RemoteAddr)

	// Viewers are read-only; reading only notices when they go away.
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	h.mu.Lock()
	if _, ok := h.peers[conn]; ok {
		delete(h.peers, conn)
		conn.Close()
	}
	h.mu.Unlock()
	log.Printf("[SHARE] viewer %s disconnected", id)
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.peers {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
		conn.Close()
		delete(h.peers, conn)
	}
}

// Serve accepts viewers on l until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, l net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle(FeedPath, h)
	srv := &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		h.Close()
		srv.Close()
	}()
	log.Printf("[SHARE] feed listening on %s", l.Addr())
	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("share feed: %w", err)
	}
	return nil
}
