package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/connect4/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 32
)

// ServerMessage is everything the server pushes to a browser.
type ServerMessage struct {
	Type    string             `json:"type"` // state, move, reset, error, closed
	GameID  string             `json:"gameId"`
	State   *domain.Snapshot   `json:"state,omitempty"`
	Move    *domain.MoveResult `json:"move,omitempty"`
	Message string             `json:"message,omitempty"`
}

// ClientMessage is what a browser may send: move, reset or state.
type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column,omitempty"`
}

// Client is one socket watching one game. Only writePump writes to conn,
// since gorilla connections allow a single concurrent writer.
type Client struct {
	GameID string
	conn   *websocket.Conn
	send   chan ServerMessage

	mu     sync.Mutex
	closed bool
}

func newClient(gameID string, conn *websocket.Conn) *Client {
	return &Client{
		GameID: gameID,
		conn:   conn,
		send:   make(chan ServerMessage, sendBuffer),
	}
}

// enqueue never blocks: it runs inside engine notifications. A client that
// cannot keep up is disconnected.
func (cl *Client) enqueue(msg ServerMessage) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.closed {
		return
	}
	select {
	case cl.send <- msg:
	default:
		log.Printf("[WS] Client for game %s too slow, dropping connection", cl.GameID)
		cl.closed = true
		close(cl.send)
	}
}

func (cl *Client) close() {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if !cl.closed {
		cl.closed = true
		close(cl.send)
	}
}

// writePump drains send until it is closed or the game goes away.
func (cl *Client) writePump(gameDone <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := cl.conn.WriteJSON(msg); err != nil {
				log.Printf("[WS] Write error for game %s: %v", cl.GameID, err)
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gameDone:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			cl.conn.WriteJSON(ServerMessage{Type: "closed", GameID: cl.GameID, Message: "game removed"})
			cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "game removed"))
			return
		}
	}
}

// ConnectionManager keeps track of the sockets attached to each game.
type ConnectionManager struct {
	clients map[string]map[*Client]bool // gameID → clients
	mu      sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{clients: make(map[string]map[*Client]bool)}
}

func (cm *ConnectionManager) AddClient(cl *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.clients[cl.GameID] == nil {
		cm.clients[cl.GameID] = make(map[*Client]bool)
	}
	cm.clients[cl.GameID][cl] = true
}

func (cm *ConnectionManager) RemoveClient(cl *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if set, exists := cm.clients[cl.GameID]; exists {
		delete(set, cl)
		if len(set) == 0 {
			delete(cm.clients, cl.GameID)
		}
	}
}

// Connections returns how many sockets currently watch gameID.
func (cm *ConnectionManager) Connections(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients[gameID])
}
