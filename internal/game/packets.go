package game

import "encoding/json"

// Wire protocol. One JSON object per websocket message, discriminated by Type.

const (
	PACKET_START_GAME = "startGame"
	PACKET_SEND_GUESS = "sendGuess"
	PACKET_NEW_ROUND  = "newRound"

	PACKET_ROOM_STATE      = "roomState"
	PACKET_COUNTDOWN       = "countdown"
	PACKET_NEW_ROUND_START = "newRoundStart"
	PACKET_GUESS_UPDATE    = "guessUpdate"
	PACKET_REVEAL_ROUND    = "revealRound"
	PACKET_GAME_OVER       = "gameOver"
)

type ClientPacket struct {
	Type  string `json:"type"`
	Guess *int   `json:"guess,omitempty"`
}

type PlayerState struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RoomStateSnapshot is the canonical view broadcast after every mutation.
// Guess values and the solution appear only once the round is revealed.
type RoomStateSnapshot struct {
	Id         string        `json:"id"`
	HostId     string        `json:"hostId"`
	Players    []PlayerState `json:"players"`
	Guessed    []string      `json:"guessed"`
	Revealed   bool          `json:"revealed"`
	Solution   *int          `json:"solution,omitempty"`
	Round      int           `json:"round"`
	MaxPlayers int           `json:"maxPlayers"`
	MaxRounds  int           `json:"maxRounds"`
	Phase      RoomPhase     `json:"phase"`
}

type ServerPacket struct {
	Type      string             `json:"type"`
	State     *RoomStateSnapshot `json:"state,omitempty"`
	Seconds   int                `json:"seconds,omitempty"`
	Round     int                `json:"round,omitempty"`
	Players   []PlayerState      `json:"players,omitempty"`
	Guessed   map[string]bool    `json:"guessed,omitempty"`
	Guesses   map[string]int     `json:"guesses,omitempty"`
	Solution  *int               `json:"solution,omitempty"`
	MaxRounds int                `json:"maxRounds,omitempty"`
}

func MakePacketRoomState(state RoomStateSnapshot) *ServerPacket {
	return &ServerPacket{Type: PACKET_ROOM_STATE, State: &state}
}

func MakePacketCountdown(seconds int) *ServerPacket {
	return &ServerPacket{Type: PACKET_COUNTDOWN, Seconds: seconds}
}

func MakePacketNewRoundStart(round int, players []PlayerState) *ServerPacket {
	return &ServerPacket{Type: PACKET_NEW_ROUND_START, Round: round, Players: players}
}

func MakePacketGuessUpdate(guessed map[string]bool) *ServerPacket {
	return &ServerPacket{Type: PACKET_GUESS_UPDATE, Guessed: guessed}
}

func MakePacketRevealRound(solution int, guesses map[string]int, players []PlayerState) *ServerPacket {
	return &ServerPacket{Type: PACKET_REVEAL_ROUND, Solution: &solution, Guesses: guesses, Players: players}
}

func MakePacketGameOver(players []PlayerState, maxRounds int) *ServerPacket {
	return &ServerPacket{Type: PACKET_GAME_OVER, Players: players, MaxRounds: maxRounds}
}

func marshalPacket(p *ServerPacket) ([]byte, error) {
	return json.Marshal(p)
}
