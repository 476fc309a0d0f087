package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

const readTimeout = 5 * time.Second

type message struct {
	Event string `json:"event" msgpack:"event"`
	Data  any    `json:"data,omitempty" msgpack:"data,omitempty"`
}

// player is one scripted websocket client.
type player struct {
	name string
	id   string
	conn *websocket.Conn
	pack bool
}

func dialPlayer(name, base string, pack bool) (*player, error) {
	u := base
	if pack {
		u += "?encoding=msgpack"
	}
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s dial: %w", name, err)
	}

	p := &player{name: name, conn: conn, pack: pack}
	data, err := p.expect("connected")
	if err != nil {
		conn.Close()
		return nil, err
	}
	if m, ok := data.(map[string]any); ok {
		p.id, _ = m["id"].(string)
	}
	return p, nil
}

func (p *player) Close() error {
	return p.conn.Close()
}

func (p *player) emit(event string, data any) error {
	msg := message{Event: event, Data: data}
	if p.pack {
		frame, err := msgpack.Marshal(&msg)
		if err != nil {
			return err
		}
		return p.conn.WriteMessage(websocket.BinaryMessage, frame)
	}
	frame, err := json.Marshal(&msg)
	if err != nil {
		return err
	}
	return p.conn.WriteMessage(websocket.TextMessage, frame)
}

func (p *player) expect(event string) (any, error) {
	_ = p.conn.SetReadDeadline(time.Now().Add(readTimeout))
	_, frame, err := p.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("%s waiting for %s: %w", p.name, event, err)
	}

	var msg message
	if p.pack {
		err = msgpack.Unmarshal(frame, &msg)
	} else {
		err = json.Unmarshal(frame, &msg)
	}
	if err != nil {
		return nil, fmt.Errorf("%s decode: %w", p.name, err)
	}
	if msg.Event != event {
		return nil, fmt.Errorf("%s expected %s, got %s (%v)", p.name, event, msg.Event, msg.Data)
	}
	return msg.Data, nil
}

// expectNothing reports an error if any frame arrives within d. The
// connection cannot be read again afterwards.
func (p *player) expectNothing(d time.Duration) error {
	_ = p.conn.SetReadDeadline(time.Now().Add(d))
	_, frame, err := p.conn.ReadMessage()
	if err == nil {
		return fmt.Errorf("%s received unexpected frame %s", p.name, frame)
	}
	return nil
}
