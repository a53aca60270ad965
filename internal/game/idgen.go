package game

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/goramNo/Blocks/internal/shared/logger"
)

const (
	roomCodeChars  = "abcdefghjkmnpqrstuvwxyz23456789"
	roomCodeLength = 6
)

// Idgen hands out room codes unique among currently-live rooms. Collisions are
// re-rolled against the live set, never assumed rare.
type Idgen struct {
	ids    map[string]struct{}
	locker sync.Mutex
}

func NewIdGen() Idgen {
	return Idgen{ids: make(map[string]struct{})}
}

func (idgen *Idgen) Generate() string {
	idgen.locker.Lock()
	defer idgen.locker.Unlock()

	for {
		id := randomRoomCode()
		if _, taken := idgen.ids[id]; taken {
			logger.Debugf("[Idgen] collision on %s, re-rolling", id)
			continue
		}
		idgen.ids[id] = struct{}{}
		return id
	}
}

func (idgen *Idgen) Dispose(id string) {
	idgen.locker.Lock()
	defer idgen.locker.Unlock()
	delete(idgen.ids, id)
}

func randomRoomCode() string {
	code := make([]byte, roomCodeLength)
	max := big.NewInt(int64(len(roomCodeChars)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		code[i] = roomCodeChars[n.Int64()]
	}
	return string(code)
}
