package game

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(lobby HandlerLobby) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewGameHandler(lobby, NewBlocksGenerator(rand.NewSource(1)), "https://blocks.example")
	RegisterRoutes(r, h)
	return r
}

func TestCreateGameHandler_RejectsBadParameters(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		desc  string
		query string
		error string
	}{
		{"missing name", "", "name must be 3-20 characters"},
		{"name too short", "name=ab", "name must be 3-20 characters"},
		{"whitespace-only name", "name=%20%20%20%20", "name must be 3-20 characters"},
		{"maxPlayers not a number", "name=Alice&maxPlayers=lots", "maxPlayers must be between 1 and 3"},
		{"maxPlayers too high", "name=Alice&maxPlayers=4", "maxPlayers must be between 1 and 3"},
		{"maxRounds too low", "name=Alice&maxRounds=2", "maxRounds must be between 3 and 20"},
		{"maxRounds too high", "name=Alice&maxRounds=21", "maxRounds must be between 3 and 20"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			lobby := &MockLobby{}
			router := newTestRouter(lobby)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/game/create?"+tC.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tC.error)
			lobby.AssertNotCalled(t, "RequestAddAndRunRoom", mock.Anything, mock.Anything)
		})
	}
}

func TestJoinGameHandler_RejectsBadName(t *testing.T) {
	t.Parallel()
	lobby := &MockLobby{}
	router := newTestRouter(lobby)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/game/join/abc123?name=x", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	lobby.AssertNotCalled(t, "ForwardPlayerJoinRequestToRoom", mock.Anything, mock.Anything)
}

func TestGetPublicGamesHandler(t *testing.T) {
	t.Parallel()
	lobby := &MockLobby{}
	lobby.On("GetPublicGames", mock.Anything).Return([]roomDescription{
		{id: "abc123", playersCount: 2, maxPlayers: 3, started: true},
	}).Once()
	router := newTestRouter(lobby)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/game/games", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var infos []RoomInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))
	assert.Equal(t, []RoomInfo{{Id: "abc123", Players: 2, MaxPlayers: 3, Started: true}}, infos)
	lobby.AssertExpectations(t)
}

func TestGetPublicGamesHandler_EmptyListMarshalsAsArray(t *testing.T) {
	t.Parallel()
	lobby := &MockLobby{}
	lobby.On("GetPublicGames", mock.Anything).Return([]roomDescription{}).Once()
	router := newTestRouter(lobby)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/game/games", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestInviteHandler(t *testing.T) {
	t.Parallel()
	lobby := &MockLobby{}
	lobby.On("RoomExists", mock.Anything, "missing").Return(false).Once()
	lobby.On("RoomExists", mock.Anything, "abc123").Return(true).Once()
	router := newTestRouter(lobby)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/game/invite/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), ErrRoomNotFound.Error())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/game/invite/abc123", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")), "body is not a PNG")
	lobby.AssertExpectations(t)
}

// end-to-end: real lobby actor, real rooms, real websockets
func TestGameFlow_CreateAndJoinOverWebsocket(t *testing.T) {
	t.Parallel()
	idgen := NewIdGen()
	tickerGen := NewTickerGen()
	lobby := NewLobby(&idgen, &tickerGen)
	started := make(chan struct{})
	go lobby.LobbyActor(started)
	<-started

	router := newTestRouter(lobby)
	server := httptest.NewServer(router)
	defer server.Close()
	wsBase := "ws" + strings.TrimPrefix(server.URL, "http")

	readPacket := func(t *testing.T, conn *websocket.Conn) ServerPacket {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var p ServerPacket
		require.NoError(t, json.Unmarshal(data, &p))
		return p
	}

	hostConn, _, err := websocket.DefaultDialer.Dial(wsBase+"/game/create?name=Alice&maxPlayers=2&maxRounds=3", nil)
	require.NoError(t, err)
	defer hostConn.Close()

	state := readPacket(t, hostConn)
	require.Equal(t, PACKET_ROOM_STATE, state.Type)
	require.NotNil(t, state.State)
	roomId := state.State.Id
	require.NotEmpty(t, roomId)
	assert.Equal(t, PHASE_LOBBY, state.State.Phase)
	assert.Len(t, state.State.Players, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.True(t, lobby.RoomExists(ctx, roomId))

	// joining a room that doesn't exist closes the socket with a reason
	ghostConn, _, err := websocket.DefaultDialer.Dial(wsBase+"/game/join/zzzzzz?name=Ghost", nil)
	require.NoError(t, err)
	defer ghostConn.Close()
	ghostConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = ghostConn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, ErrRoomNotFound.Error(), closeErr.Text)

	joinConn, _, err := websocket.DefaultDialer.Dial(wsBase+"/game/join/"+roomId+"?name=Bob", nil)
	require.NoError(t, err)
	defer joinConn.Close()

	state = readPacket(t, joinConn)
	require.Equal(t, PACKET_ROOM_STATE, state.Type)
	assert.Len(t, state.State.Players, 2)

	// the host sees the join broadcast too
	state = readPacket(t, hostConn)
	require.Equal(t, PACKET_ROOM_STATE, state.Type)
	assert.Len(t, state.State.Players, 2)

	// host starts the game, both clients get the countdown then the snapshot
	require.NoError(t, hostConn.WriteJSON(ClientPacket{Type: PACKET_START_GAME}))
	countdown := readPacket(t, hostConn)
	require.Equal(t, PACKET_COUNTDOWN, countdown.Type)
	assert.Equal(t, COUNTDOWN_SECONDS, countdown.Seconds)
	countdown = readPacket(t, joinConn)
	require.Equal(t, PACKET_COUNTDOWN, countdown.Type)

	state = readPacket(t, hostConn)
	require.Equal(t, PACKET_ROOM_STATE, state.Type)
	assert.Equal(t, PHASE_COUNTDOWN, state.State.Phase)
}
