package main

// Inbound event names.
const (
	EventCreateRoom       = "createRoom"
	EventJoinRoom         = "joinRoom"
	EventFindRandomPlayer = "findRandomPlayer"
	EventMakeMove         = "makeMove"
	EventResetGame        = "resetGame"
	EventLeaveRoom        = "leaveRoom"
)

// Outbound event names.
const (
	EventConnected         = "connected"
	EventRoomCreated       = "roomCreated"
	EventRoomJoined        = "roomJoined"
	EventRoomError         = "roomError"
	EventPlayerJoined      = "playerJoined"
	EventRandomPlayerFound = "randomPlayerFound"
	EventOpponentMove      = "opponentMove"
	EventGameReset         = "gameReset"
	EventPlayerLeft        = "playerLeft"
)

// Message is the envelope carried by every frame in both directions.
// Data is whatever the sender put there: a string, an object or nothing.
type Message struct {
	Event string `json:"event" msgpack:"event"`
	Data  any    `json:"data,omitempty" msgpack:"data,omitempty"`
}

type roomJoinedPayload struct {
	RoomID string `json:"roomId" msgpack:"roomId"`
	Role   string `json:"role" msgpack:"role"`
}

type playersPayload struct {
	RoomID  string   `json:"roomId" msgpack:"roomId"`
	Players []string `json:"players" msgpack:"players"`
}

type yourRolePayload struct {
	YourRole string `json:"yourRole" msgpack:"yourRole"`
}

type connectedPayload struct {
	ID string `json:"id" msgpack:"id"`
}

// roomArg pulls a room code out of an inbound payload. Clients send either
// the bare code or an object carrying roomId (or code).
func roomArg(data any) string {
	switch v := data.(type) {
	case string:
		return NormalizeCode(v)
	case map[string]any:
		for _, key := range []string{"roomId", "code"} {
			if s, ok := v[key].(string); ok && s != "" {
				return NormalizeCode(s)
			}
		}
	}
	return ""
}
