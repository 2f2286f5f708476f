package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/service/game"
)

// ViewerCounter reports how many live sockets watch a game.
type ViewerCounter interface {
	Connections(gameID string) int
}

type WatchHandler struct {
	SessionManager *game.SessionManager
	Viewers        ViewerCounter
}

func NewWatchHandler(sm *game.SessionManager, viewers ViewerCounter) *WatchHandler {
	return &WatchHandler{SessionManager: sm, Viewers: viewers}
}

type liveGameResponse struct {
	game.GameSummary
	ViewerCount int `json:"viewerCount"`
}

// GetLiveGames lists hosted games; ?status=in_progress|won|draw filters them.
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	filter := domain.GameStatus(c.Query("status"))

	games := h.SessionManager.ActiveGames()
	response := make([]liveGameResponse, 0, len(games))
	for _, g := range games {
		if filter != "" && g.Status.Kind != filter {
			continue
		}
		item := liveGameResponse{GameSummary: g}
		if h.Viewers != nil {
			item.ViewerCount = h.Viewers.Connections(g.GameID)
		}
		response = append(response, item)
	}

	c.JSON(http.StatusOK, response)
}
