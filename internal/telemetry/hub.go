// Package telemetry broadcasts the agent's debug event stream — exit
// triggers, state-changed/target-changed observations, and recoverable
// command errors (spec.md §6/§7) — to any number of websocket viewers.
// It renders nothing; spec.md §1/§6 carve GUI/plot rendering out of
// scope, but a live event feed is not a renderer.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait        = 1 * time.Second
	closeGracePeriod = 5 * time.Second
	backlogSize      = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventKind discriminates the events a Hub broadcasts.
type EventKind string

const (
	EventTrigger       EventKind = "trigger"
	EventStateChanged  EventKind = "state_changed"
	EventTargetChanged EventKind = "target_changed"
	EventError         EventKind = "error"
)

// Event is one JSON frame pushed to every connected viewer.
type Event struct {
	Kind    EventKind `json:"kind"`
	RunID   string    `json:"run_id"`
	StateID string    `json:"state_id,omitempty"`
	Exit    string    `json:"exit,omitempty"`
	Target  *Point    `json:"target,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Point is the JSON-friendly shape of a target position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Hub fans out Events to every registered websocket client and keeps a
// small ring-buffered backlog so a client that connects mid-run still
// sees recent history, adapted from the teacher pack's
// niceyeti-tabular/server websocket push server (single /ws handler,
// write-deadline discipline, graceful close).
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	backlog []Event
	log     zerolog.Logger
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub builds an empty Hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), log: logger}
}

// Publish broadcasts ev to every connected client and appends it to the
// backlog. Safe to call from the agent's dispatch task; delivery to
// slow clients never blocks the caller (a full client channel drops
// the event for that client).
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	h.backlog = append(h.backlog, ev)
	if len(h.backlog) > backlogSize {
		h.backlog = h.backlog[len(h.backlog)-backlogSize:]
	}
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			h.log.Warn().Msg("telemetry client backpressure, dropping event")
		}
	}
	h.mu.Unlock()
}

// ServeWS upgrades r into a websocket connection, replays the backlog,
// and streams subsequent Published events until the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("telemetry websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan Event, backlogSize)}
	h.register(c)
	defer h.unregister(c)
	defer h.closeConn(conn)

	for ev := range c.send {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	for _, ev := range h.backlog {
		select {
		case c.send <- ev:
		default:
		}
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeConn(conn *websocket.Conn) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	_ = conn.Close()
}
