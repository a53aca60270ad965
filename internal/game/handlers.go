package game

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/goramNo/Blocks/internal/shared/logger"
)

// HandlerLobby is what the HTTP layer needs from the lobby.
type HandlerLobby interface {
	Lobby
	GetPublicGames(ctx context.Context) []roomDescription
	RoomExists(ctx context.Context, roomId string) bool
}

type GameHandler struct {
	lobby     HandlerLobby
	blocksGen BlocksGenerator
	publicURL string
	upgrader  websocket.Upgrader
}

func NewGameHandler(lobby HandlerLobby, blocksGen BlocksGenerator, publicURL string) *GameHandler {
	return &GameHandler{
		lobby:     lobby,
		blocksGen: blocksGen,
		publicURL: strings.TrimRight(publicURL, "/"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RoomInfo is the public room listing entry.
type RoomInfo struct {
	Id         string `json:"id"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Started    bool   `json:"started"`
}

func (h *GameHandler) CreateGameHandler(ctx *gin.Context) {
	name := strings.TrimSpace(ctx.Query("name"))
	if !ValidateName(name) {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name must be 3-20 characters"})
		return
	}

	maxPlayers, err := strconv.Atoi(ctx.DefaultQuery("maxPlayers", "3"))
	if err != nil || !ValidateMaxPlayers(maxPlayers) {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "maxPlayers must be between 1 and 3"})
		return
	}

	maxRounds, err := strconv.Atoi(ctx.DefaultQuery("maxRounds", "5"))
	if err != nil || !ValidateMaxRounds(maxRounds) {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "maxRounds must be between 3 and 20"})
		return
	}

	private := ctx.Query("private") == "true"

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warningf("[Handlers] websocket upgrade failed: %v", err)
		return
	}

	host := NewPlayer(uuid.NewString(), name)
	room := NewRoom(host, private, RoomConfigs{MaxPlayers: maxPlayers, MaxRounds: maxRounds}, h.blocksGen)
	h.lobby.RequestAddAndRunRoom(ctx.Request.Context(), room)

	socket := NewWebsocketConnection(conn)
	go host.ReadPump(socket)
	go host.WritePump(socket)
}

func (h *GameHandler) JoinGameHandler(ctx *gin.Context) {
	name := strings.TrimSpace(ctx.Query("name"))
	if !ValidateName(name) {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name must be 3-20 characters"})
		return
	}
	roomId := ctx.Param("roomid")

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warningf("[Handlers] websocket upgrade failed: %v", err)
		return
	}
	socket := NewWebsocketConnection(conn)

	joiner := NewPlayer(uuid.NewString(), name)
	jreq := NewRoomJoinRequest(roomId, joiner)
	h.lobby.ForwardPlayerJoinRequestToRoom(ctx.Request.Context(), jreq)

	if err := <-jreq.errChan; err != nil {
		logger.Debugf("[Handlers] join of %s to %s refused: %v", name, roomId, err)
		socket.Close(err.Error())
		return
	}

	go joiner.ReadPump(socket)
	go joiner.WritePump(socket)
}

func (h *GameHandler) GetPublicGamesHandler(ctx *gin.Context) {
	descs := h.lobby.GetPublicGames(ctx.Request.Context())
	infos := make([]RoomInfo, 0, len(descs))
	for _, desc := range descs {
		infos = append(infos, RoomInfo{
			Id:         desc.id,
			Players:    desc.playersCount,
			MaxPlayers: desc.maxPlayers,
			Started:    desc.started,
		})
	}
	ctx.JSON(http.StatusOK, infos)
}

// InviteHandler renders the join link for a live room as a QR code.
func (h *GameHandler) InviteHandler(ctx *gin.Context) {
	roomId := ctx.Param("roomid")
	if !h.lobby.RoomExists(ctx.Request.Context(), roomId) {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": ErrRoomNotFound.Error()})
		return
	}

	png, err := qrcode.Encode(h.publicURL+"/?room="+roomId, qrcode.Medium, 256)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "qr-encoding-failed"})
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}
