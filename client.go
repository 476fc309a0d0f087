package main

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

var errSendBufferFull = errors.New("send buffer full")

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	id      string
	ip      string
	codec   Codec
	limiter *rate.Limiter
	logger  *slog.Logger
	send    chan []byte

	closeOnce sync.Once
	closed    bool
}

func NewClient(hub *Hub, conn *websocket.Conn, codec Codec, ip string, limiter *rate.Limiter) *Client {
	id := uuid.NewString()
	return &Client{
		hub:     hub,
		conn:    conn,
		id:      id,
		ip:      ip,
		codec:   codec,
		limiter: limiter,
		logger:  hub.logger.With("conn", id),
		send:    make(chan []byte, sendBufferSize),
	}
}

// Deliver encodes msg with the client's codec and queues it without
// blocking. Called only from the hub goroutine.
func (c *Client) Deliver(msg *Message) error {
	if c.closed {
		return errors.New("client closed")
	}
	data, err := c.codec.Encode(msg)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read error", "err", err)
			}
			return
		}

		if c.limiter != nil && !c.limiter.Allow() {
			c.logger.Warn("event rate exceeded, dropping frame")
			continue
		}

		msg, err := c.codec.Decode(data)
		if err != nil {
			c.logger.Warn("malformed frame", "err", err)
			continue
		}
		if !c.hub.Submit(&Inbound{ConnID: c.id, Msg: msg}) {
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(c.codec.FrameType(), data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed = true
		close(c.send)
	})
}
