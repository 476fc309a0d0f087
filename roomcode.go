package main

import "math/rand/v2"

const (
	roomCodeLength   = 6
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator returns a candidate room code. RoomStore calls it until it
// produces a code that is not in use.
type CodeGenerator func() string

// randomRoomCode is not cryptographically secure; room codes are only
// meant to be short and typeable.
func randomRoomCode() string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))]
	}
	return string(b)
}
