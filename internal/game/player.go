package game

import (
	"context"
	"encoding/json"

	"golang.org/x/time/rate"

	"github.com/goramNo/Blocks/internal/shared/logger"
)

type player struct {
	id          string
	username    string
	rateLimiter *rate.Limiter
	inbox       chan []byte
	pingChan    chan struct{}
	room        Room
	ctx         context.Context
	cancelCtx   context.CancelFunc
}

func NewPlayer(id, username string) *player {
	ctx, cancel := context.WithCancel(context.Background())
	return &player{
		id:          id,
		username:    username,
		rateLimiter: rate.NewLimiter(5, 10),
		inbox:       make(chan []byte, 256),
		pingChan:    make(chan struct{}, 1),
		ctx:         ctx,
		cancelCtx:   cancel,
	}
}

func (p *player) Id() string {
	return p.id
}

func (p *player) Username() string {
	return p.username
}

func (p *player) SetRoom(r Room) {
	p.room = r
}

func (p *player) CancelAndRelease() {
	p.cancelCtx()
}

// Send queues data for the write pump. A client that cannot keep up loses
// packets rather than stalling the room.
func (p *player) Send(data []byte) error {
	select {
	case p.inbox <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (p *player) Ping() error {
	select {
	case p.pingChan <- struct{}{}:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// ReadPump decodes client packets into the room inbox until the socket dies or
// the player is released. Rate-limited; excess packets are dropped.
func (p *player) ReadPump(socket NetworkSession) {
	defer socket.Close("")

	for {
		if p.ctx.Err() != nil {
			return
		}

		data, err := socket.Read()
		if err != nil {
			if p.room != nil {
				p.room.RemoveMe(p.ctx, p)
			}
			return
		}

		if !p.rateLimiter.Allow() {
			logger.Debugf("[Player %s] rate limit exceeded, dropping packet", p.id)
			continue
		}

		var packet ClientPacket
		if err := json.Unmarshal(data, &packet); err != nil {
			logger.Debugf("[Player %s] undecodable packet dropped: %v", p.id, err)
			continue
		}

		if p.room != nil {
			p.room.Send(p.ctx, clientPacketEnvelope{packet: packet, fromId: p.id})
		}
	}
}

func (p *player) WritePump(socket NetworkSession) {
	defer socket.Close("")

	for {
		select {
		case <-p.ctx.Done():
			return
		case data := <-p.inbox:
			if err := socket.Write(data); err != nil {
				if p.room != nil {
					p.room.RemoveMe(p.ctx, p)
				}
				return
			}
		case <-p.pingChan:
			if err := socket.Ping(); err != nil {
				if p.room != nil {
					p.room.RemoveMe(p.ctx, p)
				}
				return
			}
		}
	}
}
