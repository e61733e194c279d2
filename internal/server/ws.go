package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

const (
	// clientBuffer is how many events a slow client may lag before events
	// are dropped for it.
	clientBuffer = 64
	writeTimeout = 2 * time.Second
)

// AimEvent is one game frame as seen by viewers.
type AimEvent struct {
	Type         string  `json:"type"` // "aim", "hit" or "miss"
	Frame        int     `json:"frame"`
	HasAim       bool    `json:"hasAim"`
	Angle        float64 `json:"angle"`
	AimX         float64 `json:"aimX"`
	AimY         float64 `json:"aimY"`
	TargetX      float64 `json:"targetX"`
	TargetY      float64 `json:"targetY"`
	TargetRadius float64 `json:"targetRadius"`
	Banging      bool    `json:"banging"`
	Score        int     `json:"score"`
	Shots        int     `json:"shots"`
	Timestamp    int64   `json:"timestamp"`
}

// AimHub fans game events out to websocket viewers.
type AimHub struct {
	log     zerolog.Logger
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

// NewAimHub creates an AimHub with no viewers.
func NewAimHub(log zerolog.Logger) *AimHub {
	return &AimHub{
		log:     log,
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Publish sends event to every connected viewer. Viewers that are behind
// miss the event rather than stall the game.
func (h *AimHub) Publish(event AimEvent) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal aim event")
		return
	}

	for conn, ch := range h.clients {
		select {
		case ch <- msg:
		default:
			h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("dropping aim event for slow viewer")
		}
	}
}

// Clients returns the number of connected viewers.
func (h *AimHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams events until the viewer leaves.
func (h *AimHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ch := make(chan []byte, clientBuffer)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case msg := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
