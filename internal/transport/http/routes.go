package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(r gin.IRouter, gameHandler *GameHandler, watchHandler *WatchHandler) {
	api := r.Group("/api")
	{
		api.GET("/rules", gameHandler.GetRules)

		api.GET("/games", watchHandler.GetLiveGames)
		api.POST("/games", gameHandler.CreateGame)
		api.GET("/games/:id", gameHandler.GetGame)
		api.DELETE("/games/:id", gameHandler.DeleteGame)
		api.POST("/games/:id/moves", gameHandler.PlayMove)
		api.POST("/games/:id/reset", gameHandler.ResetGame)
		api.GET("/games/:id/cells/:col/:row", gameHandler.GetCell)
	}
}
