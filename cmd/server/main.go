package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/goramNo/Blocks/internal/game"
	"github.com/goramNo/Blocks/internal/shared/logger"
)

const releaseVersion = "1.0.0"

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func serve(cfg *Config) error {
	if cfg.verbose {
		logger.SetVerbose()
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	idGen := game.NewIdGen()
	tickerGen := game.NewTickerGen()

	lobby := game.NewLobby(&idGen, &tickerGen)
	lobbyStarted := make(chan struct{})
	go lobby.LobbyActor(lobbyStarted)
	<-lobbyStarted

	blocksGen := game.NewBlocksGenerator(rand.NewSource(time.Now().UnixNano()))
	gameHandler := game.NewGameHandler(lobby, blocksGen, cfg.publicURL)

	r := CreateServer(cfg.allowedOrigins)
	game.RegisterRoutes(r, gameHandler)

	addr := fmt.Sprintf("%s:%d", cfg.bind, cfg.port)
	logger.Infof("blocks-server v%s listening on %s", releaseVersion, addr)
	return r.Run(addr)
}

func main() {
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}
