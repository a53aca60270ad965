package game

import "time"

type RoomPhase int

const (
	PHASE_LOBBY RoomPhase = iota
	PHASE_COUNTDOWN
	PHASE_PLAYING
	PHASE_REVEALED
	PHASE_GAME_OVER
)

// Board geometry and round tuning. The client renders a 6x4 isometric grid.
const (
	BOARD_COLS  = 6
	BOARD_ROWS  = 4
	TOTAL_CELLS = BOARD_COLS * BOARD_ROWS

	MIN_BLOCKS = 3
	MAX_BLOCKS = 12

	COUNTDOWN_SECONDS  = 3
	COUNTDOWN_DURATION = COUNTDOWN_SECONDS * time.Second
)

// Room configuration limits, enforced at the HTTP boundary.
const (
	MIN_NAME_LENGTH = 3
	MAX_NAME_LENGTH = 20
	MIN_MAX_PLAYERS = 1
	MAX_MAX_PLAYERS = 3
	MIN_MAX_ROUNDS  = 3
	MAX_MAX_ROUNDS  = 20
)

type RoomConfigs struct {
	MaxPlayers int `json:"maxPlayers"`
	MaxRounds  int `json:"maxRounds"`
}

// seat is one player's room-side state. Seats keep join order; the front seat
// inherits the host role when the host leaves.
type seat struct {
	player Player
	score  int
}

type roomJoinRequest struct {
	roomId  string
	player  Player
	errChan chan error
}

func NewRoomJoinRequest(roomId string, player Player) roomJoinRequest {
	return roomJoinRequest{roomId: roomId, player: player, errChan: make(chan error, 1)}
}

type clientPacketEnvelope struct {
	packet ClientPacket
	fromId string
}

type roomDescription struct {
	id           string
	private      bool
	playersCount int
	maxPlayers   int
	started      bool
}

type dataSendTask struct {
	to   Player
	data []byte
}

type pingSendTask struct {
	to Player
}

type room struct {
	id      string
	private bool
	hostId  string
	phase   RoomPhase
	// closed is set once the room has asked the lobby to remove it. Joins the
	// lobby forwarded before processing that removal must not land here.
	closed bool

	maxPlayers int
	maxRounds  int

	round    int
	revealed bool
	guesses  map[string]int
	blocks   []int // hidden board, never serialized before reveal
	solution int
	nextTick time.Time

	seats []*seat

	parentLobby Lobby
	blocksGen   BlocksGenerator

	inbox                 chan clientPacketEnvelope
	joinReqs              chan roomJoinRequest
	playerRemovalRequests chan Player
	ticks                 chan time.Time
	pingPlayers           chan struct{}

	// Outbox drained by the room goroutine after every handled event. Tests
	// inspect it directly.
	dataSendTasks []dataSendTask
	pingSendTasks []pingSendTask
}
