package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/service/game"
	"github.com/iamasit07/connect4/pkg/uid"
)

type GameHandler struct {
	SessionManager *game.SessionManager
	DefaultRules   domain.Rules
}

func NewGameHandler(sm *game.SessionManager, rules domain.Rules) *GameHandler {
	return &GameHandler{SessionManager: sm, DefaultRules: rules}
}

type createGameRequest struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
	Goal    int `json:"goal"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

type gameResponse struct {
	GameID string `json:"gameId"`
	domain.Snapshot
}

type moveResponse struct {
	domain.MoveResult
	Error string `json:"error,omitempty"`
}

type cellResponse struct {
	Column int             `json:"column"`
	Row    int             `json:"row"`
	Cell   domain.PlayerID `json:"cell"`
}

// CreateGame starts a new game; omitted dimensions fall back to the defaults.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	rules := h.DefaultRules
	if req.Columns != 0 {
		rules.Columns = req.Columns
	}
	if req.Rows != 0 {
		rules.Rows = req.Rows
	}
	if req.Goal != 0 {
		rules.Goal = req.Goal
	}

	session, err := h.SessionManager.CreateSession(rules)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gameResponse{GameID: session.GameID, Snapshot: session.Snapshot()})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gameResponse{GameID: session.GameID, Snapshot: session.Snapshot()})
}

// PlayMove drops a disk for whoever's turn it is. Rejected moves report
// accepted=false together with the unchanged status.
func (h *GameHandler) PlayMove(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	result, err := session.PlayMove(*req.Column)
	if err != nil {
		c.JSON(statusFor(err), moveResponse{MoveResult: result, Error: rootMessage(err)})
		return
	}
	c.JSON(http.StatusOK, moveResponse{MoveResult: result})
}

func (h *GameHandler) ResetGame(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Reset()
	c.JSON(http.StatusOK, gameResponse{GameID: session.GameID, Snapshot: session.Snapshot()})
}

func (h *GameHandler) GetCell(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	col, errCol := strconv.Atoi(c.Param("col"))
	row, errRow := strconv.Atoi(c.Param("row"))
	if errCol != nil || errRow != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column and row must be integers"})
		return
	}

	cell, err := session.Cell(col, row)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cellResponse{Column: col, Row: row, Cell: cell})
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.SessionManager.RemoveSession(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetRules exposes the default board constants for layout.
func (h *GameHandler) GetRules(c *gin.Context) {
	c.JSON(http.StatusOK, h.DefaultRules)
}

func (h *GameHandler) session(c *gin.Context) (*game.GameSession, bool) {
	id := c.Param("id")
	var session *game.GameSession
	exists := false
	if uid.IsGameID(id) {
		session, exists = h.SessionManager.GetSessionByGameID(id)
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrSessionNotFound.Error()})
		return nil, false
	}
	return session, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrColumnFull), errors.Is(err, domain.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOutOfRange), errors.Is(err, domain.ErrInvalidRules):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrTooManyGames):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// rootMessage strips the wrapping context so clients see the stable sentinel text.
func rootMessage(err error) string {
	return errors.Cause(err).Error()
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": rootMessage(err), "detail": err.Error()})
}
