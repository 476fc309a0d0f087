package main

import (
	"errors"
	"log/slog"
	"slices"
)

// Session is the per-connection record. Room is the code of the room the
// connection most recently created or joined, or empty when unbound.
type Session struct {
	ID   string
	Room string
}

// Coordinator applies inbound events to the room table and the match
// queue and emits the resulting outbound events. It holds no locks: the
// caller must deliver events one at a time.
type Coordinator struct {
	store     *RoomStore
	queue     *MatchQueue
	transport Transport
	logger    *slog.Logger
	sessions  map[string]*Session
}

func NewCoordinator(store *RoomStore, queue *MatchQueue, transport Transport, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		store:     store,
		queue:     queue,
		transport: transport,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Connect opens a session for a freshly registered connection.
func (co *Coordinator) Connect(connID string) *Session {
	s := &Session{ID: connID}
	co.sessions[connID] = s
	return s
}

// Handle dispatches one inbound event. Events from unknown connections are
// dropped; a disconnect is terminal.
func (co *Coordinator) Handle(connID string, msg *Message) {
	s, ok := co.sessions[connID]
	if !ok {
		co.logger.Debug("event from unknown connection", "conn", connID, "event", msg.Event)
		return
	}

	switch msg.Event {
	case EventCreateRoom:
		co.createRoom(s)
	case EventJoinRoom:
		co.joinRoom(s, msg.Data)
	case EventFindRandomPlayer:
		co.findRandomPlayer(s)
	case EventMakeMove:
		co.relay(s, msg.Data, EventOpponentMove, msg.Data)
	case EventResetGame:
		co.relay(s, msg.Data, EventGameReset, nil)
	case EventLeaveRoom:
		co.leaveRoom(s, msg.Data)
	default:
		co.logger.Debug("unknown event", "conn", connID, "event", msg.Event)
	}
}

func (co *Coordinator) createRoom(s *Session) {
	code, err := co.store.Create(s.ID)
	if err != nil {
		co.fail(s, err)
		return
	}
	co.transport.JoinGroup(s.ID, code)
	s.Room = code
	co.transport.Send(s.ID, EventRoomCreated, code)
	co.logger.Info("room created", "room", code, "conn", s.ID)
}

func (co *Coordinator) joinRoom(s *Session, data any) {
	code := roomArg(data)
	if code == "" {
		co.transport.Send(s.ID, EventRoomError, "room code is required")
		return
	}

	role, room, err := co.store.Join(code, s.ID)
	if err != nil {
		co.fail(s, err)
		return
	}
	co.transport.JoinGroup(s.ID, room.Code)
	s.Room = room.Code
	co.transport.Send(s.ID, EventRoomJoined, roomJoinedPayload{RoomID: room.Code, Role: role})

	if len(room.Players) == maxPlayersPerRoom {
		co.transport.BroadcastToGroup(room.Code, EventPlayerJoined, playersPayload{
			RoomID:  room.Code,
			Players: slices.Clone(room.Players),
		}, "")
		co.transport.BroadcastToGroup(room.Code, EventPlayerJoined, yourRolePayload{YourRole: RoleHost}, s.ID)
		co.transport.Send(s.ID, EventPlayerJoined, yourRolePayload{YourRole: RoleGuest})
	}
	co.logger.Info("joined room", "room", room.Code, "conn", s.ID, "players", len(room.Players))
}

func (co *Coordinator) findRandomPlayer(s *Session) {
	co.queue.Enqueue(s.ID)

	p1, p2, ok := co.queue.TryPairOne()
	if !ok {
		co.logger.Debug("waiting for opponent", "conn", s.ID, "queued", co.queue.Len())
		return
	}

	code, err := co.store.CreateRandom(p1, p2)
	if err != nil {
		co.logger.Error("random room not created", "err", err)
		for _, id := range []string{p1, p2} {
			co.transport.Send(id, EventRoomError, err.Error())
		}
		return
	}

	for _, seat := range []struct{ id, role string }{{p1, RoleHost}, {p2, RoleGuest}} {
		co.transport.JoinGroup(seat.id, code)
		if peer, ok := co.sessions[seat.id]; ok {
			peer.Room = code
		}
		co.transport.Send(seat.id, EventRandomPlayerFound, roomJoinedPayload{RoomID: code, Role: seat.role})
	}
	co.logger.Info("random match", "room", code, "host", p1, "guest", p2)
}

// relay forwards an event to everyone else in the room named by the
// payload, falling back to the sender's bound room. Without either it is a
// silent no-op.
func (co *Coordinator) relay(s *Session, data any, event string, out any) {
	code := co.targetRoom(s, data)
	if code == "" {
		co.logger.Debug("relay without room", "conn", s.ID, "event", event)
		return
	}
	co.transport.BroadcastToGroup(code, event, out, s.ID)
}

func (co *Coordinator) leaveRoom(s *Session, data any) {
	code := co.targetRoom(s, data)
	if code == "" {
		return
	}
	co.transport.LeaveGroup(s.ID, code)
	co.transport.BroadcastToGroup(code, EventPlayerLeft, nil, s.ID)
	if _, deleted := co.store.RemovePlayer(code, s.ID); deleted {
		co.logger.Info("room deleted", "room", code)
	}
	if s.Room == code {
		s.Room = ""
	}
	co.logger.Info("left room", "room", code, "conn", s.ID)
}

// Disconnect removes every trace of connID: the queue entry, each room
// seat, and the session. Remaining occupants get one playerLeft per room.
// Calling it twice is harmless.
func (co *Coordinator) Disconnect(connID string) {
	if _, ok := co.sessions[connID]; !ok {
		return
	}
	delete(co.sessions, connID)
	co.queue.Remove(connID)

	for _, code := range co.store.RoomsOf(connID) {
		_, deleted := co.store.RemovePlayer(code, connID)
		co.transport.BroadcastToGroup(code, EventPlayerLeft, nil, connID)
		co.transport.LeaveGroup(connID, code)
		if deleted {
			co.logger.Info("room deleted", "room", code)
		}
	}
	co.logger.Info("disconnected", "conn", connID)
}

// targetRoom falls back to the bound room only when the payload names no
// room at all. A roomId that is present but not a usable string yields "".
func (co *Coordinator) targetRoom(s *Session, data any) string {
	if m, ok := data.(map[string]any); ok {
		if raw, present := m["roomId"]; present {
			code, _ := raw.(string)
			return NormalizeCode(code)
		}
	}
	if code := roomArg(data); code != "" {
		return code
	}
	return s.Room
}

func (co *Coordinator) fail(s *Session, err error) {
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrRoomFull), errors.Is(err, ErrAlreadyInRoom):
		co.logger.Info("join rejected", "conn", s.ID, "err", err)
	default:
		co.logger.Error("room operation failed", "conn", s.ID, "err", err)
	}
	co.transport.Send(s.ID, EventRoomError, err.Error())
}
