package game

import (
	"context"
	"time"

	"github.com/goramNo/Blocks/internal/shared/logger"
)

type roomExistsRequest struct {
	roomId   string
	respChan chan bool
}

type lobby struct {
	rooms                map[string]Room
	pubRoomsDescriptions map[string]roomDescription

	addAndRunRoomChan chan Room
	removeRoomChan    chan string
	pubGamesReq       chan chan []roomDescription
	roomDescUpdate    chan roomDescription
	roomJoinReqs      chan roomJoinRequest
	roomExistsReqs    chan roomExistsRequest

	idGenerator   UniqueIdGenerator
	tickerCreator PeriodicTickerChannelCreator
}

func NewLobby(idgen UniqueIdGenerator, tickerCreator PeriodicTickerChannelCreator) *lobby {
	return &lobby{
		rooms:                map[string]Room{},
		pubRoomsDescriptions: map[string]roomDescription{},
		addAndRunRoomChan:    make(chan Room, 32),
		removeRoomChan:       make(chan string, 32),
		pubGamesReq:          make(chan chan []roomDescription, 256),
		roomDescUpdate:       make(chan roomDescription, 256),
		roomJoinReqs:         make(chan roomJoinRequest, 256),
		roomExistsReqs:       make(chan roomExistsRequest, 256),
		idGenerator:          idgen,
		tickerCreator:        tickerCreator,
	}
}

func (l *lobby) RequestAddAndRunRoom(ctx context.Context, r Room) {
	select {
	case l.addAndRunRoomChan <- r:
	case <-ctx.Done():
	}
}

func (l *lobby) ForwardPlayerJoinRequestToRoom(ctx context.Context, jreq roomJoinRequest) {
	select {
	case l.roomJoinReqs <- jreq:
	case <-ctx.Done():
	}
}

func (l *lobby) RequestUpdateDescription(desc roomDescription) {
	select {
	case l.roomDescUpdate <- desc:
	default:
	}
}

func (l *lobby) RemoveRoom(roomId string) {
	l.removeRoomChan <- roomId
}

func (l *lobby) GetPublicGames(ctx context.Context) []roomDescription {
	respChan := make(chan []roomDescription, 1)
	select {
	case l.pubGamesReq <- respChan:
		select {
		case resp := <-respChan:
			return resp
		case <-ctx.Done():
			return nil
		}
	case <-ctx.Done():
		return nil
	}
}

func (l *lobby) RoomExists(ctx context.Context, roomId string) bool {
	respChan := make(chan bool, 1)
	select {
	case l.roomExistsReqs <- roomExistsRequest{roomId: roomId, respChan: respChan}:
		select {
		case resp := <-respChan:
			return resp
		case <-ctx.Done():
			return false
		}
	case <-ctx.Done():
		return false
	}
}

func (l *lobby) LobbyActor(started chan struct{}) {
	ticker := l.tickerCreator.Create(time.Second)
	pingTicker := l.tickerCreator.Create(time.Second * 30)

	close(started)

	for {
		select {
		case now := <-ticker:
			for _, r := range l.rooms {
				r.Tick(now)
			}
		case <-pingTicker:
			for _, r := range l.rooms {
				r.PingPlayers()
			}

		case room := <-l.addAndRunRoomChan:
			l.handleAddAndRunRoom(room)

		case roomId := <-l.removeRoomChan:
			l.handleRemoveRoom(roomId)

		case desc := <-l.roomDescUpdate:
			if _, ok := l.pubRoomsDescriptions[desc.id]; ok || !desc.private {
				l.pubRoomsDescriptions[desc.id] = desc
			}

		case pubGamesReq := <-l.pubGamesReq:
			l.handleGetPublicRoomsDescription(pubGamesReq)

		case existsReq := <-l.roomExistsReqs:
			_, ok := l.rooms[existsReq.roomId]
			existsReq.respChan <- ok

		case joinReq := <-l.roomJoinReqs:
			l.handleJoinReq(joinReq)
		}
	}
}

func (l *lobby) handleAddAndRunRoom(r Room) {
	id := l.idGenerator.Generate()
	r.SetId(id)
	r.SetParentLobby(l)

	l.rooms[id] = r
	rDesc := r.Description()
	go r.GameLoop()
	logger.Infof("[Lobby] room %s registered", id)
	if rDesc.private {
		return
	}
	l.pubRoomsDescriptions[id] = rDesc
}

func (l *lobby) handleRemoveRoom(toRemoveId string) {
	room, ok := l.rooms[toRemoveId]
	if !ok {
		return
	}
	delete(l.rooms, toRemoveId)
	delete(l.pubRoomsDescriptions, toRemoveId)
	room.CloseAndRelease()
	l.idGenerator.Dispose(toRemoveId)
	logger.Infof("[Lobby] room %s removed", toRemoveId)
}

func (l *lobby) handleGetPublicRoomsDescription(req chan []roomDescription) {
	descs := make([]roomDescription, 0, len(l.pubRoomsDescriptions))
	for _, description := range l.pubRoomsDescriptions {
		descs = append(descs, description)
	}
	req <- descs
}

func (l *lobby) handleJoinReq(joinReq roomJoinRequest) {
	room, ok := l.rooms[joinReq.roomId]
	if !ok {
		joinReq.errChan <- ErrRoomNotFound
		return
	}
	room.RequestJoin(joinReq)
}
