// Package websocket pushes progress events to connected dashboards:
// a personal course_completed event when a user finishes a course and
// a leaderboard_refresh broadcast telling every client to re-fetch the
// ranking.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message is the envelope for every event sent to a client.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins. Adjust this in production!
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TokenVerifier resolves a session token to a user id. Implemented by
// the auth service.
type TokenVerifier interface {
	VerifyToken(token string) (uint, error)
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
	done   chan struct{}
}

type Hub struct {
	clients       map[*Client]bool
	clientsByUser map[uint][]*Client
	register      chan *Client
	unregister    chan *Client
	mu            sync.RWMutex
	verifier      TokenVerifier
}

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		clientsByUser: make(map[uint][]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
	}
}

func (h *Hub) SetTokenVerifier(verifier TokenVerifier) {
	h.verifier = verifier
}

// Run listens on the register and unregister channels and updates the
// hub state accordingly.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.clientsByUser[client.userID] = append(h.clientsByUser[client.userID], client)
			log.Printf("Client registered for user %d. Total clients: %d", client.userID, len(h.clients))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.clientsByUser[client.userID] = removeClient(h.clientsByUser[client.userID], client)
				if len(h.clientsByUser[client.userID]) == 0 {
					delete(h.clientsByUser, client.userID)
				}
				close(client.send)
				close(client.done)
				log.Printf("Client for user %d left. Remaining clients: %d", client.userID, len(h.clients))
			}
			h.mu.Unlock()
		}
	}
}

func removeClient(clients []*Client, target *Client) []*Client {
	for i, c := range clients {
		if c == target {
			return append(clients[:i], clients[i+1:]...)
		}
	}
	return clients
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: messageType, Data: data})
	if err != nil {
		log.Printf("Error marshaling broadcast message: %v", err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.queue(client, payload)
	}
}

// SendToUser sends a message to every connection held by one user.
func (h *Hub) SendToUser(userID uint, messageType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: messageType, Data: data})
	if err != nil {
		log.Printf("Error marshaling message for user %d: %v", userID, err)
		return
	}

	h.mu.RLock()
	clients := append([]*Client(nil), h.clientsByUser[userID]...)
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}
	for _, client := range clients {
		h.queue(client, payload)
	}
}

// queue hands a payload to one client. The snapshot taken by Broadcast
// and SendToUser can race with Run closing the send channel on
// unregister, so a send here may hit a closed channel.
func (h *Hub) queue(client *Client, payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered sending to user %d: %v", client.userID, r)
		}
	}()
	select {
	case <-client.done:
	case client.send <- payload:
	default:
		log.Printf("Send channel full for user %d; unregistering client", client.userID)
		h.unregister <- client
	}
}

// HandleWebSocket authenticates the token query parameter, upgrades the
// connection and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		http.Error(w, "WebSocket not available", http.StatusServiceUnavailable)
		return
	}

	userID, err := h.verifier.VerifyToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		done:   make(chan struct{}),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pings and close frames are
// processed. Clients send nothing the server acts on.
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close for user %d: %v", c.userID, err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error writing message to user %d: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
