package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/deckforge/pocketbattle/internal/game"
)

// Envelope is the websocket wire frame, both directions.
type Envelope struct {
	Type    string          `json:"type"`
	MatchID string          `json:"match_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client is one websocket connection, bound to a player in a match after
// authentication.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	matchID  string
	playerID string
}

// Hub fans game messages out to the websocket clients of each match.
type Hub struct {
	mu       sync.RWMutex
	logger   *zap.Logger
	clients  map[*Client]bool
	router   *Router
	upgrader websocket.Upgrader
}

// NewHub creates an empty hub. The router is attached by NewRouter. An empty
// origin list accepts any origin.
func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		logger:  logger,
		clients: make(map[*Client]bool),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	h.logger.Debug("client connected",
		zap.String("match_id", c.matchID),
		zap.String("player_id", c.playerID))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// sendToMatch delivers a frame to every client of a match, or to a single
// player when playerID is non-empty. Slow clients are dropped rather than
// blocking the game loop.
func (h *Hub) sendToMatch(matchID, playerID string, frame []byte) {
	h.mu.RLock()
	var stale []*Client
	for c := range h.clients {
		if c.matchID != matchID {
			continue
		}
		if playerID != "" && c.playerID != playerID {
			continue
		}
		select {
		case c.send <- frame:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range stale {
		h.unregister(c)
	}
}

// sendToClient delivers a frame to one client, dropping it when the buffer
// is full. The channel send happens under the lock so unregister cannot
// close the channel mid-send.
func (h *Hub) sendToClient(c *Client, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

// matchMessenger adapts the hub to the game's message sink for one match.
type matchMessenger struct {
	hub     *Hub
	matchID string
}

type eventPayload struct {
	Text string `json:"text"`
}

// NewMessenger returns the message sink for a match's game.
func (h *Hub) NewMessenger(matchID string) game.Messenger {
	return &matchMessenger{hub: h, matchID: matchID}
}

func (m *matchMessenger) Broadcast(text string) {
	m.send("", text)
}

func (m *matchMessenger) ToPlayer(playerID, text string) {
	m.send(playerID, text)
}

func (m *matchMessenger) send(playerID, text string) {
	data, err := json.Marshal(eventPayload{Text: text})
	if err != nil {
		return
	}
	frame, err := json.Marshal(Envelope{Type: "event", MatchID: m.matchID, Data: data})
	if err != nil {
		return
	}
	m.hub.sendToMatch(m.matchID, playerID, frame)
}

// ServeWS upgrades an authenticated request to a websocket and starts the
// read/write pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, matchID, playerID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		matchID:  matchID,
		playerID: playerID,
	}
	h.register(client)
	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.hub.logger.Warn("bad websocket frame", zap.Error(err))
			continue
		}
		if c.hub.router != nil {
			c.hub.router.handleAction(c, env)
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (c *Client) reply(kind string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	frame, err := json.Marshal(Envelope{Type: kind, MatchID: c.matchID, Data: data})
	if err != nil {
		return
	}
	c.hub.sendToClient(c, frame)
}
