package game

import (
	"context"
	"time"
)

// NetworkSession is the transport a player talks through. The gorilla adapter
// in websocket.go is the only production implementation.
type NetworkSession interface {
	Close(reason string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// Player is a connected client as seen by a room.
type Player interface {
	Id() string
	Username() string
	Send(data []byte) error
	Ping() error
	SetRoom(r Room)
	CancelAndRelease()
}

// Room is one game session, driven by its own goroutine.
type Room interface {
	GameLoop()
	RequestJoin(jreq roomJoinRequest)
	RemoveMe(ctx context.Context, p Player)
	Send(ctx context.Context, e clientPacketEnvelope)
	Tick(now time.Time)
	PingPlayers()
	Description() roomDescription
	SetId(id string)
	SetParentLobby(l Lobby)
	CloseAndRelease()
}

// Lobby owns the table of live rooms.
type Lobby interface {
	RequestAddAndRunRoom(ctx context.Context, r Room)
	ForwardPlayerJoinRequestToRoom(ctx context.Context, jreq roomJoinRequest)
	RequestUpdateDescription(desc roomDescription)
	RemoveRoom(roomId string)
}

// BlocksGenerator draws one round's hidden board: n distinct cell indices with
// n uniform in [minBlocks, maxBlocks]. The solution is len(result).
type BlocksGenerator interface {
	Generate(minBlocks, maxBlocks, totalCells int) []int
}

type UniqueIdGenerator interface {
	Generate() string
	Dispose(id string)
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}
