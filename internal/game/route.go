package game

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *GameHandler) {
	gameGroup := r.Group("/game")

	gameGroup.GET("/create", h.CreateGameHandler)
	gameGroup.GET("/join/:roomid", h.JoinGameHandler)
	gameGroup.GET("/games", h.GetPublicGamesHandler)
	gameGroup.GET("/invite/:roomid", h.InviteHandler)
}
