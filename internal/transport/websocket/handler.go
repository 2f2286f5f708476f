package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/service/game"
	"github.com/iamasit07/connect4/pkg/uid"
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Upgrader       websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket upgrades GET /ws/games/:id and streams the game's state.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	id := c.Param("id")
	if !uid.IsGameID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrSessionNotFound.Error()})
		return
	}
	session, exists := h.SessionManager.GetSessionByGameID(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrSessionNotFound.Error()})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(session, conn)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(session *game.GameSession, conn *websocket.Conn) {
	client := newClient(session.GameID, conn)
	h.ConnManager.AddClient(client)

	unsubscribe := session.Subscribe(func(u game.Update) {
		client.enqueue(updateMessage(session.GameID, u))
	})

	go client.writePump(session.Done())

	defer func() {
		unsubscribe()
		client.close()
		h.ConnManager.RemoveClient(client)
		log.Printf("[WS] Connection closed for game %s", session.GameID)
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	log.Printf("[WS] Connection opened for game %s", session.GameID)
	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error for game %s: %v", session.GameID, err)
			}
			return
		}
		h.handleMessage(session, client, msg)
	}
}

func (h *Handler) handleMessage(session *game.GameSession, client *Client, msg ClientMessage) {
	switch msg.Type {
	case "move":
		if msg.Column == nil {
			client.enqueue(ServerMessage{Type: "error", GameID: session.GameID, Message: "column is required"})
			return
		}
		// accepted moves reach every client through the subscription
		if result, err := session.PlayMove(*msg.Column); err != nil {
			client.enqueue(ServerMessage{
				Type:    "error",
				GameID:  session.GameID,
				Move:    &result,
				Message: errors.Cause(err).Error(),
			})
		}
	case "reset":
		session.Reset()
	case "state":
		state := session.Snapshot()
		client.enqueue(ServerMessage{Type: "state", GameID: session.GameID, State: &state})
	default:
		client.enqueue(ServerMessage{Type: "error", GameID: session.GameID, Message: "unknown message type: " + msg.Type})
	}
}

func updateMessage(gameID string, u game.Update) ServerMessage {
	msg := ServerMessage{GameID: gameID, State: &u.State, Move: u.Event.Move}
	switch u.Event.Type {
	case game.EventState:
		msg.Type = "state"
	case domain.EventMove:
		msg.Type = "move"
	case domain.EventReset:
		msg.Type = "reset"
	}
	return msg
}
