package game

import (
	"context"
	"sort"
	"time"

	"github.com/goramNo/Blocks/internal/shared/logger"
)

func NewRoom(host Player, private bool, configs RoomConfigs, blocksGen BlocksGenerator) *room {
	r := &room{
		private:               private,
		hostId:                host.Id(),
		phase:                 PHASE_LOBBY,
		maxPlayers:            configs.MaxPlayers,
		maxRounds:             configs.MaxRounds,
		guesses:               make(map[string]int),
		blocksGen:             blocksGen,
		inbox:                 make(chan clientPacketEnvelope, 1024),
		joinReqs:              make(chan roomJoinRequest, 64),
		playerRemovalRequests: make(chan Player, 64),
		ticks:                 make(chan time.Time, 24),
		pingPlayers:           make(chan struct{}, 4),
		dataSendTasks:         make([]dataSendTask, 0),
		pingSendTasks:         make([]pingSendTask, 0),
	}
	r.seats = append(r.seats, &seat{player: host})
	host.SetRoom(r)
	return r
}

func (r *room) SetId(id string) {
	r.id = id
}

func (r *room) SetParentLobby(l Lobby) {
	r.parentLobby = l
}

func (r *room) Description() roomDescription {
	return roomDescription{
		id:           r.id,
		private:      r.private,
		playersCount: len(r.seats),
		maxPlayers:   r.maxPlayers,
		started:      r.phase != PHASE_LOBBY,
	}
}

func (r *room) RequestJoin(jreq roomJoinRequest) {
	r.joinReqs <- jreq
}

func (r *room) Send(ctx context.Context, e clientPacketEnvelope) {
	select {
	case r.inbox <- e:
	case <-ctx.Done():
	}
}

func (r *room) RemoveMe(ctx context.Context, p Player) {
	select {
	case r.playerRemovalRequests <- p:
	case <-ctx.Done():
	}
}

func (r *room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *room) PingPlayers() {
	select {
	case r.pingPlayers <- struct{}{}:
	default:
	}
}

// CloseAndRelease runs on the lobby goroutine once the room is unregistered.
// Joins the lobby forwarded before the removal was processed may still sit in
// joinReqs; they are answered here so no joiner blocks on a dead room.
func (r *room) CloseAndRelease() {
	close(r.ticks)
	close(r.pingPlayers)
	for {
		select {
		case jreq := <-r.joinReqs:
			jreq.errChan <- ErrRoomNotFound
		default:
			for _, s := range r.seats {
				s.player.CancelAndRelease()
			}
			return
		}
	}
}

// GameLoop is the room's single mutation point. Every handler below runs here
// only; the outbox is flushed after each handled event so all members observe
// the same snapshot sequence.
func (r *room) GameLoop() {
	r.broadcastRoomState()
	r.flushSendTasks()

	for {
		select {
		case e := <-r.inbox:
			r.handleClientPacketEnvelope(e)
		case jreq := <-r.joinReqs:
			r.handleJoinRequest(jreq)
		case p := <-r.playerRemovalRequests:
			r.handleRemovePlayer(p)
		case now, ok := <-r.ticks:
			if !ok {
				return
			}
			r.handleTick(now)
		case _, ok := <-r.pingPlayers:
			if !ok {
				return
			}
			r.handlePingPlayers()
		}
		r.flushSendTasks()
	}
}

func (r *room) handleClientPacketEnvelope(e clientPacketEnvelope) {
	switch e.packet.Type {
	case PACKET_START_GAME:
		r.handleStartGameEnvelope(e.fromId)
	case PACKET_SEND_GUESS:
		if e.packet.Guess == nil {
			logger.Debugf("[Room %s] sendGuess without a guess from %s", r.id, e.fromId)
			return
		}
		r.handleGuessEnvelope(*e.packet.Guess, e.fromId)
	case PACKET_NEW_ROUND:
		r.handleNewRoundEnvelope(e.fromId)
	default:
		logger.Debugf("[Room %s] unknown packet type %q from %s", r.id, e.packet.Type, e.fromId)
	}
}

func (r *room) handleJoinRequest(jreq roomJoinRequest) {
	if r.closed {
		jreq.errChan <- ErrRoomNotFound
		return
	}
	if r.seatIndex(jreq.player.Id()) >= 0 {
		// duplicate delivery of a join, not a reconnect
		jreq.errChan <- nil
		return
	}
	if len(r.seats) >= r.maxPlayers {
		jreq.errChan <- ErrRoomFull
		return
	}

	r.seats = append(r.seats, &seat{player: jreq.player})
	jreq.player.SetRoom(r)
	jreq.errChan <- nil

	logger.Infof("[Room %s] %s joined (%d/%d)", r.id, jreq.player.Username(), len(r.seats), r.maxPlayers)
	r.parentLobby.RequestUpdateDescription(r.Description())
	r.broadcastRoomState()
}

func (r *room) handleRemovePlayer(p Player) {
	idx := r.seatIndex(p.Id())
	if idx < 0 {
		return
	}

	r.seats = append(r.seats[:idx], r.seats[idx+1:]...)
	delete(r.guesses, p.Id())
	p.CancelAndRelease()
	logger.Infof("[Room %s] %s left (%d remaining)", r.id, p.Username(), len(r.seats))

	if len(r.seats) == 0 {
		r.closed = true
		r.parentLobby.RemoveRoom(r.id)
		return
	}

	if r.hostId == p.Id() {
		r.hostId = nextHost(r.seats)
		logger.Infof("[Room %s] host left, authority moved to %s", r.id, r.hostId)
	}

	r.parentLobby.RequestUpdateDescription(r.Description())
	r.broadcastRoomState()

	// a departed player no longer blocks the reveal
	if r.phase == PHASE_PLAYING {
		r.maybeReveal()
	}
}

func (r *room) handleStartGameEnvelope(fromId string) {
	if fromId != r.hostId {
		logger.Debugf("[Room %s] startGame from non-host %s ignored", r.id, fromId)
		return
	}
	if r.phase != PHASE_LOBBY {
		logger.Debugf("[Room %s] startGame in phase %d ignored", r.id, r.phase)
		return
	}
	r.startCountdown()
}

func (r *room) handleNewRoundEnvelope(fromId string) {
	if fromId != r.hostId {
		logger.Debugf("[Room %s] newRound from non-host %s ignored", r.id, fromId)
		return
	}
	if r.phase != PHASE_REVEALED {
		logger.Debugf("[Room %s] newRound in phase %d ignored", r.id, r.phase)
		return
	}
	if r.round == r.maxRounds {
		r.phase = PHASE_GAME_OVER
		logger.Infof("[Room %s] game over after round %d", r.id, r.round)
		r.sendToAll(MakePacketGameOver(r.playerStates(), r.maxRounds))
		r.broadcastRoomState()
		return
	}
	r.startCountdown()
}

func (r *room) startCountdown() {
	r.phase = PHASE_COUNTDOWN
	r.nextTick = time.Now().Add(COUNTDOWN_DURATION)
	r.sendToAll(MakePacketCountdown(COUNTDOWN_SECONDS))
	r.broadcastRoomState()
	r.parentLobby.RequestUpdateDescription(r.Description())
}

// handleTick fires round starts. The phase and deadline check here is the
// staleness guard: a tick delivered after the room was reset or drained of a
// countdown does nothing.
func (r *room) handleTick(now time.Time) {
	if r.phase != PHASE_COUNTDOWN {
		return
	}
	if now.Before(r.nextTick) {
		return
	}
	r.startRound()
}

func (r *room) startRound() {
	r.round++
	r.revealed = false
	r.guesses = make(map[string]int)
	r.blocks = r.blocksGen.Generate(MIN_BLOCKS, MAX_BLOCKS, TOTAL_CELLS)
	r.solution = len(r.blocks)
	r.phase = PHASE_PLAYING

	logger.Infof("[Room %s] round %d/%d started", r.id, r.round, r.maxRounds)
	// the board itself stays server-side until the reveal
	r.sendToAll(MakePacketNewRoundStart(r.round, r.playerStates()))
	r.broadcastRoomState()
}

func (r *room) handleGuessEnvelope(guess int, fromId string) {
	if r.phase != PHASE_PLAYING {
		logger.Debugf("[Room %s] guess outside an active round from %s ignored", r.id, fromId)
		return
	}
	if !ValidateGuess(guess) {
		logger.Debugf("[Room %s] out-of-range guess %d from %s ignored", r.id, guess, fromId)
		return
	}
	if r.seatIndex(fromId) < 0 {
		logger.Debugf("[Room %s] guess from non-member %s ignored", r.id, fromId)
		return
	}
	if _, already := r.guesses[fromId]; already {
		logger.Debugf("[Room %s] duplicate guess from %s ignored", r.id, fromId)
		return
	}

	r.guesses[fromId] = guess
	r.sendToAll(MakePacketGuessUpdate(r.guessedMap()))
	r.broadcastRoomState()
	r.maybeReveal()
}

func (r *room) maybeReveal() {
	if len(r.seats) == 0 || len(r.guesses) != len(r.seats) {
		return
	}
	r.reveal()
}

func (r *room) reveal() {
	r.revealed = true
	r.phase = PHASE_REVEALED

	for _, s := range r.seats {
		if guess, ok := r.guesses[s.player.Id()]; ok && guess == r.solution {
			s.score++
		}
	}

	guesses := make(map[string]int, len(r.guesses))
	for id, g := range r.guesses {
		guesses[id] = g
	}

	logger.Infof("[Room %s] round %d revealed, solution %d", r.id, r.round, r.solution)
	r.sendToAll(MakePacketRevealRound(r.solution, guesses, r.playerStates()))
	r.broadcastRoomState()
}

func (r *room) handlePingPlayers() {
	for _, s := range r.seats {
		r.pingSendTasks = append(r.pingSendTasks, pingSendTask{to: s.player})
	}
}

func (r *room) broadcastRoomState() {
	r.sendToAll(MakePacketRoomState(r.snapshot()))
}

func (r *room) snapshot() RoomStateSnapshot {
	state := RoomStateSnapshot{
		Id:         r.id,
		HostId:     r.hostId,
		Players:    r.playerStates(),
		Guessed:    make([]string, 0, len(r.guesses)),
		Revealed:   r.revealed,
		Round:      r.round,
		MaxPlayers: r.maxPlayers,
		MaxRounds:  r.maxRounds,
		Phase:      r.phase,
	}
	for id := range r.guesses {
		state.Guessed = append(state.Guessed, id)
	}
	sort.Strings(state.Guessed)
	if r.revealed {
		solution := r.solution
		state.Solution = &solution
	}
	return state
}

func (r *room) playerStates() []PlayerState {
	states := make([]PlayerState, 0, len(r.seats))
	for _, s := range r.seats {
		states = append(states, PlayerState{
			Id:    s.player.Id(),
			Name:  s.player.Username(),
			Score: s.score,
		})
	}
	return states
}

func (r *room) guessedMap() map[string]bool {
	guessed := make(map[string]bool, len(r.guesses))
	for id := range r.guesses {
		guessed[id] = true
	}
	return guessed
}

func (r *room) seatIndex(playerId string) int {
	for i, s := range r.seats {
		if s.player.Id() == playerId {
			return i
		}
	}
	return -1
}

// nextHost is the host-migration rule: authority moves to the longest-standing
// remaining player, the front of the ordered seat list.
func nextHost(seats []*seat) string {
	if len(seats) == 0 {
		return ""
	}
	return seats[0].player.Id()
}

func (r *room) sendToAll(p *ServerPacket) {
	data, err := marshalPacket(p)
	if err != nil {
		logger.Criticalf("[Room %s] failed to marshal %s packet: %v", r.id, p.Type, err)
		return
	}
	for _, s := range r.seats {
		r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: s.player, data: data})
	}
}

func (r *room) flushSendTasks() {
	for _, task := range r.dataSendTasks {
		if err := task.to.Send(task.data); err != nil {
			logger.Debugf("[Room %s] dropping send to %s: %v", r.id, task.to.Username(), err)
		}
	}
	for _, task := range r.pingSendTasks {
		if err := task.to.Ping(); err != nil {
			logger.Debugf("[Room %s] ping to %s failed: %v", r.id, task.to.Username(), err)
		}
	}
	r.dataSendTasks = r.dataSendTasks[:0]
	r.pingSendTasks = r.pingSendTasks[:0]
}
