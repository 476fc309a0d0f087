package main

import (
	"errors"
	"slices"
	"strings"
	"time"
)

const (
	maxPlayersPerRoom = 2

	// maxCodeAttempts bounds the collision retry loop in freeCode.
	maxCodeAttempts = 16
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrAlreadyInRoom      = errors.New("already in this room")
	ErrCodeSpaceExhausted = errors.New("could not allocate a room code")
)

const (
	RoleHost  = "host"
	RoleGuest = "guest"
)

// Room is a two-seat game room. Players[0] is the host seat.
type Room struct {
	Code      string
	Players   []string
	HostID    string
	CreatedAt time.Time
	IsRandom  bool
}

func (r *Room) has(connID string) bool {
	return slices.Contains(r.Players, connID)
}

// RoomStore is the in-memory room table. It is not safe for concurrent
// use; the hub goroutine is its only owner.
type RoomStore struct {
	rooms   map[string]*Room
	newCode CodeGenerator
	now     func() time.Time
}

func NewRoomStore(gen CodeGenerator, now func() time.Time) *RoomStore {
	if gen == nil {
		gen = randomRoomCode
	}
	if now == nil {
		now = time.Now
	}
	return &RoomStore{
		rooms:   make(map[string]*Room),
		newCode: gen,
		now:     now,
	}
}

// Create opens a room with hostID in the host seat and returns its code.
func (s *RoomStore) Create(hostID string) (string, error) {
	return s.insert([]string{hostID}, false)
}

// CreateRandom opens a full room for a matchmaking pair. p1 is host.
func (s *RoomStore) CreateRandom(p1, p2 string) (string, error) {
	return s.insert([]string{p1, p2}, true)
}

func (s *RoomStore) insert(players []string, random bool) (string, error) {
	code, err := s.freeCode()
	if err != nil {
		return "", err
	}
	s.rooms[code] = &Room{
		Code:      code,
		Players:   players,
		HostID:    players[0],
		CreatedAt: s.now(),
		IsRandom:  random,
	}
	return code, nil
}

func (s *RoomStore) freeCode() (string, error) {
	for range maxCodeAttempts {
		code := s.newCode()
		if _, taken := s.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// Join seats connID in the room identified by code. The joiner is always
// told it is the guest.
func (s *RoomStore) Join(code, connID string) (string, *Room, error) {
	room, ok := s.rooms[NormalizeCode(code)]
	if !ok {
		return "", nil, ErrRoomNotFound
	}
	if room.has(connID) {
		return "", nil, ErrAlreadyInRoom
	}
	if len(room.Players) >= maxPlayersPerRoom {
		return "", nil, ErrRoomFull
	}
	room.Players = append(room.Players, connID)
	return RoleGuest, room, nil
}

// RemovePlayer takes connID out of the room and deletes the room once it is
// empty. It reports the players left behind and whether the room was
// deleted. Unknown codes or players are ignored.
func (s *RoomStore) RemovePlayer(code, connID string) (remaining []string, deleted bool) {
	code = NormalizeCode(code)
	room, ok := s.rooms[code]
	if !ok {
		return nil, false
	}
	room.Players = slices.DeleteFunc(room.Players, func(id string) bool { return id == connID })
	if len(room.Players) == 0 {
		delete(s.rooms, code)
		return nil, true
	}
	return slices.Clone(room.Players), false
}

// SweepStale deletes empty rooms older than maxAge and returns their codes.
func (s *RoomStore) SweepStale(maxAge time.Duration, now time.Time) []string {
	var swept []string
	for code, room := range s.rooms {
		if len(room.Players) == 0 && now.Sub(room.CreatedAt) > maxAge {
			delete(s.rooms, code)
			swept = append(swept, code)
		}
	}
	return swept
}

func (s *RoomStore) Get(code string) (*Room, bool) {
	room, ok := s.rooms[NormalizeCode(code)]
	return room, ok
}

// RoomsOf lists the codes of every room that seats connID.
func (s *RoomStore) RoomsOf(connID string) []string {
	var codes []string
	for code, room := range s.rooms {
		if room.has(connID) {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}

func (s *RoomStore) Len() int {
	return len(s.rooms)
}

func (s *RoomStore) PlayerCount() int {
	n := 0
	for _, room := range s.rooms {
		n += len(room.Players)
	}
	return n
}

// NormalizeCode trims and upper-cases a user supplied room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
