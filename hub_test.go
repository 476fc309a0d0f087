package main

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testConfig() *Config {
	return &Config{
		Port:            0,
		MaxMessageSize:  65536,
		RateLimitPerIP:  1000,
		EventRate:       1000,
		JanitorInterval: time.Hour,
		RoomMaxAge:      30 * time.Minute,
	}
}

type testRelay struct {
	hub *Hub
	ts  *httptest.Server
}

func newTestRelay(t *testing.T, codes ...string) *testRelay {
	t.Helper()
	cfg := testConfig()
	logger := discardLogger()
	hub := NewHub(cfg, logger)
	if len(codes) > 0 {
		hub.store.newCode = sequenceCodes(codes...)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := NewServer(cfg, hub, NewRateLimiter(cfg.RateLimitPerIP), logger)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return &testRelay{hub: hub, ts: ts}
}

type wsPeer struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
	pack bool
}

func (r *testRelay) dial(t *testing.T, encoding string) *wsPeer {
	t.Helper()
	u := "ws" + strings.TrimPrefix(r.ts.URL, "http") + "/ws"
	if encoding != "" {
		u += "?encoding=" + encoding
	}
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	p := &wsPeer{t: t, conn: conn, pack: encoding == "msgpack"}
	data := p.expect(EventConnected)
	p.id = data.(map[string]any)["id"].(string)
	require.NotEmpty(t, p.id)
	return p
}

func (p *wsPeer) emit(event string, data any) {
	p.t.Helper()
	msg := &Message{Event: event, Data: data}
	var (
		frame []byte
		err   error
		kind  = websocket.TextMessage
	)
	if p.pack {
		frame, err = msgpack.Marshal(msg)
		kind = websocket.BinaryMessage
	} else {
		frame, err = json.Marshal(msg)
	}
	require.NoError(p.t, err)
	require.NoError(p.t, p.conn.WriteMessage(kind, frame))
}

func (p *wsPeer) next() *Message {
	p.t.Helper()
	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	kind, frame, err := p.conn.ReadMessage()
	require.NoError(p.t, err)

	var msg Message
	if p.pack {
		require.Equal(p.t, websocket.BinaryMessage, kind)
		require.NoError(p.t, msgpack.Unmarshal(frame, &msg))
	} else {
		require.Equal(p.t, websocket.TextMessage, kind)
		require.NoError(p.t, json.Unmarshal(frame, &msg))
	}
	return &msg
}

func (p *wsPeer) expect(event string) any {
	p.t.Helper()
	msg := p.next()
	require.Equal(p.t, event, msg.Event, "unexpected event %s: %v", msg.Event, msg.Data)
	return msg.Data
}

// expectSilence must be the last read on a peer: a timed out read leaves
// the connection unusable.
func (p *wsPeer) expectSilence(d time.Duration) {
	p.t.Helper()
	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(d)))
	_, frame, err := p.conn.ReadMessage()
	require.Error(p.t, err, "expected no frame, got %s", frame)
}

func TestHub_RoomCodeScenario(t *testing.T) {
	relay := newTestRelay(t, "AB12CD")
	x := relay.dial(t, "")
	y := relay.dial(t, "")

	x.emit(EventCreateRoom, nil)
	assert.Equal(t, "AB12CD", x.expect(EventRoomCreated))

	y.emit(EventJoinRoom, "AB12CD")
	assert.Equal(t, map[string]any{"roomId": "AB12CD", "role": "guest"}, y.expect(EventRoomJoined))

	players := []any{x.id, y.id}
	assert.Equal(t, map[string]any{"roomId": "AB12CD", "players": players}, y.expect(EventPlayerJoined))
	assert.Equal(t, map[string]any{"yourRole": "guest"}, y.expect(EventPlayerJoined))
	assert.Equal(t, map[string]any{"roomId": "AB12CD", "players": players}, x.expect(EventPlayerJoined))
	assert.Equal(t, map[string]any{"yourRole": "host"}, x.expect(EventPlayerJoined))

	x.emit(EventMakeMove, map[string]any{"roomId": "AB12CD", "col": 3})
	assert.Equal(t, map[string]any{"roomId": "AB12CD", "col": 3.0}, y.expect(EventOpponentMove))

	y.emit(EventResetGame, "AB12CD")
	assert.Nil(t, x.expect(EventGameReset))

	x.expectSilence(200 * time.Millisecond)
}

func TestHub_RandomScenario(t *testing.T) {
	relay := newTestRelay(t)
	a := relay.dial(t, "")
	b := relay.dial(t, "")

	a.emit(EventFindRandomPlayer, nil)
	require.Eventually(t, func() bool { return relay.hub.Stats().Waiting == 1 }, 2*time.Second, 10*time.Millisecond)
	b.emit(EventFindRandomPlayer, nil)

	first := a.expect(EventRandomPlayerFound).(map[string]any)
	second := b.expect(EventRandomPlayerFound).(map[string]any)

	assert.Equal(t, first["roomId"], second["roomId"])
	assert.Equal(t, "host", first["role"])
	assert.Equal(t, "guest", second["role"])
	assert.Len(t, first["roomId"], roomCodeLength)

	stats := relay.hub.Stats()
	assert.Equal(t, 1, stats.Rooms)
	assert.Equal(t, 2, stats.Players)
	assert.Equal(t, 0, stats.Waiting)
}

func TestHub_DisconnectNotifiesPeer(t *testing.T) {
	relay := newTestRelay(t, "AB12CD")
	x := relay.dial(t, "")
	y := relay.dial(t, "")

	x.emit(EventCreateRoom, nil)
	x.expect(EventRoomCreated)
	y.emit(EventJoinRoom, "AB12CD")
	y.expect(EventRoomJoined)
	y.expect(EventPlayerJoined)
	y.expect(EventPlayerJoined)

	require.NoError(t, x.conn.Close())
	y.expect(EventPlayerLeft)

	require.Eventually(t, func() bool {
		s := relay.hub.Stats()
		return s.Connections == 1 && s.Players == 1 && s.Rooms == 1
	}, 2*time.Second, 10*time.Millisecond)

	y.emit(EventLeaveRoom, "AB12CD")
	require.Eventually(t, func() bool { return relay.hub.Stats().Rooms == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_MsgpackPeerTalksToJSONPeer(t *testing.T) {
	relay := newTestRelay(t, "PACK01")
	x := relay.dial(t, "msgpack")
	y := relay.dial(t, "")

	x.emit(EventCreateRoom, nil)
	assert.Equal(t, "PACK01", x.expect(EventRoomCreated))

	y.emit(EventJoinRoom, "pack01")
	y.expect(EventRoomJoined)
	y.expect(EventPlayerJoined)
	y.expect(EventPlayerJoined)
	x.expect(EventPlayerJoined)
	x.expect(EventPlayerJoined)

	y.emit(EventMakeMove, map[string]any{"roomId": "PACK01", "col": 5})
	move := x.expect(EventOpponentMove).(map[string]any)
	assert.Equal(t, "PACK01", move["roomId"])
	assert.EqualValues(t, 5, move["col"])
}

func TestHub_MalformedFrameIsDropped(t *testing.T) {
	relay := newTestRelay(t, "AB12CD")
	x := relay.dial(t, "")

	require.NoError(t, x.conn.WriteMessage(websocket.TextMessage, []byte("{oops")))
	x.emit(EventCreateRoom, nil)
	assert.Equal(t, "AB12CD", x.expect(EventRoomCreated))
}

func TestHub_RunAndShutdown(t *testing.T) {
	hub := NewHub(testConfig(), discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub.Run did not return after cancel")
	}

	for range 100 {
		assert.False(t, hub.Register(newBufferedClient("late", 1)), "a stopped hub never accepts clients")
		assert.False(t, hub.Submit(&Inbound{ConnID: "late", Msg: &Message{Event: EventCreateRoom}}))
	}
}

func TestHub_DisconnectWaitsForEarlierFrames(t *testing.T) {
	for range 50 {
		hub := NewHub(testConfig(), discardLogger())
		hub.store.newCode = sequenceCodes("AB12CD")

		x, y := newBufferedClient("X", 8), newBufferedClient("Y", 8)
		for _, c := range []*Client{x, y} {
			hub.registry.Add(c)
			hub.coord.Connect(c.id)
		}
		hub.coord.Handle("X", &Message{Event: EventCreateRoom})
		hub.coord.Handle("Y", &Message{Event: EventJoinRoom, Data: "AB12CD"})
		drain(t, x)
		drain(t, y)

		// The move and the disconnect are both pending when Run starts.
		require.True(t, hub.Submit(&Inbound{ConnID: "X", Msg: &Message{
			Event: EventMakeMove,
			Data:  map[string]any{"roomId": "AB12CD", "col": 3},
		}}))
		hub.Unregister(x)

		ctx, cancel := context.WithCancel(context.Background())
		go hub.Run(ctx)
		require.Eventually(t, func() bool { return hub.Stats().Connections == 1 }, 2*time.Second, time.Millisecond)
		cancel()
		<-hub.done

		assert.Equal(t, []string{EventOpponentMove, EventPlayerLeft}, drain(t, y))
	}
}

func TestHub_JanitorTick(t *testing.T) {
	cfg := testConfig()
	cfg.JanitorInterval = 10 * time.Millisecond
	cfg.RoomMaxAge = time.Millisecond
	hub := NewHub(cfg, discardLogger())

	code, err := hub.store.Create("ghost")
	require.NoError(t, err)
	room, _ := hub.store.Get(code)
	room.Players = nil

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	require.Eventually(t, func() bool { return hub.Stats().Rooms == 0 }, 2*time.Second, 10*time.Millisecond)
}
