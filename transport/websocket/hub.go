package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Spectating is read-only, so cross-origin connections are fine.
		return true
	},
}

// MovePayload describes one applied move. Status is the service's status
// object, passed through pre-marshaled so this package stays independent of
// the service types.
type MovePayload struct {
	UCI    string          `json:"uci"`
	SAN    string          `json:"san"`
	FEN    string          `json:"fen"`
	Status json.RawMessage `json:"status,omitempty"`
}

// Message is the wire format sent to spectators.
type Message struct {
	GameID string       `json:"game_id"`
	Event  string       `json:"event"`
	Move   *MovePayload `json:"move,omitempty"`
}

// Client is one spectator connection, subscribed to a single game.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

// Hub fans game events out to spectators. Register, unregister and
// broadcast all flow through Run's select loop, so the subscriber map
// needs no locking.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
}

// NewHub creates a hub. Call Run in its own goroutine before serving
// connections.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 64),
	}
}

// Run processes hub events until the hub is abandoned.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	subs, exists := h.clients[client.gameID]
	if !exists {
		subs = make(map[*Client]bool)
		h.clients[client.gameID] = subs
	}
	subs[client] = true
	log.Printf("[WS] client connected game=%s subscribers=%d", client.gameID, len(subs))
}

func (h *Hub) removeClient(client *Client) {
	subs, exists := h.clients[client.gameID]
	if !exists {
		return
	}
	if _, ok := subs[client]; !ok {
		return
	}
	delete(subs, client)
	close(client.send)
	if len(subs) == 0 {
		delete(h.clients, client.gameID)
	}
	log.Printf("[WS] client disconnected game=%s subscribers=%d", client.gameID, len(subs))
}

func (h *Hub) deliver(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] failed to marshal message: %v", err)
		return
	}
	for client := range h.clients[msg.GameID] {
		select {
		case client.send <- data:
		default:
			// Slow consumer, drop it.
			delete(h.clients[msg.GameID], client)
			close(client.send)
		}
	}
}

// MoveApplied notifies the game's spectators of an applied move.
func (h *Hub) MoveApplied(gameID, uci, san, fen string, status json.RawMessage) {
	h.broadcast <- Message{
		GameID: gameID,
		Event:  "move_applied",
		Move:   &MovePayload{UCI: uci, SAN: san, FEN: fen, Status: status},
	}
}

// GameDeleted notifies the game's spectators that the game is gone.
func (h *Hub) GameDeleted(gameID string) {
	h.broadcast <- Message{
		GameID: gameID,
		Event:  "game_deleted",
	}
}

// ServeWS upgrades an HTTP request to a spectator connection. The game id
// comes from the "game" query parameter.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 16),
		gameID: gameID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so control frames are processed and the
// hub learns about disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] read error: %v", err)
			}
			return
		}
	}
}

// writePump forwards hub messages to the connection and keeps it alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
