// Package websocket pushes notifications to users connected over a websocket.
// A user may hold several connections; each receives every message.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const defaultWriteTimeout = 5 * time.Second

// ErrRecipientOffline is returned when the recipient has no open connection.
var ErrRecipientOffline = errors.New("recipient has no open connection")

type Hub struct {
	mu           sync.RWMutex
	clients      map[string]map[*websocket.Conn]struct{}
	writeTimeout time.Duration
	acceptOpts   *websocket.AcceptOptions
}

func NewHub(writeTimeout time.Duration, originPatterns ...string) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	var opts *websocket.AcceptOptions
	if len(originPatterns) > 0 {
		opts = &websocket.AcceptOptions{OriginPatterns: originPatterns}
	}
	return &Hub{
		clients:      make(map[string]map[*websocket.Conn]struct{}),
		writeTimeout: writeTimeout,
		acceptOpts:   opts,
	}
}

// ServeHTTP upgrades the request and keeps the connection registered under
// the "user" query parameter until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		http.Error(w, "user query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, h.acceptOpts)
	if err != nil {
		logger.Error("websocket accept failed", err, logger.Fields{
			"user": user,
		})
		return
	}

	h.register(user, conn)
	logger.Info("websocket client connected", logger.Fields{
		"user": user,
	})

	// Clients only listen; CloseRead discards anything they send and
	// cancels ctx once the connection drops.
	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	h.unregister(user, conn)
	_ = conn.Close(websocket.StatusNormalClosure, "")
	logger.Info("websocket client disconnected", logger.Fields{
		"user": user,
	})
}

func (h *Hub) SendToUser(ctx context.Context, recipient string, notification domain.Notification) error {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients[recipient]))
	for conn := range h.clients[recipient] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return fmt.Errorf("%w: %s", ErrRecipientOffline, recipient)
	}

	var errs []error
	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, h.writeTimeout)
		err := wsjson.Write(writeCtx, conn, notification)
		cancel()
		if err != nil {
			h.unregister(recipient, conn)
			errs = append(errs, err)
		}
	}
	if len(errs) == len(conns) {
		return fmt.Errorf("write notification: %w", errors.Join(errs...))
	}
	return nil
}

// Connections returns the number of open connections of a user.
func (h *Hub) Connections(user string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[user])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, conns := range clients {
		for conn := range conns {
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
}

func (h *Hub) register(user string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[user] == nil {
		h.clients[user] = make(map[*websocket.Conn]struct{})
	}
	h.clients[user][conn] = struct{}{}
}

func (h *Hub) unregister(user string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[user], conn)
	if len(h.clients[user]) == 0 {
		delete(h.clients, user)
	}
}
