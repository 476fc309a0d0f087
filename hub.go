package main

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Inbound is one decoded frame waiting for the hub. A frame with Leaving
// set marks the end of the connection; it travels on the same channel as
// the connection's events so everything submitted before it is handled
// first.
type Inbound struct {
	ConnID  string
	Msg     *Message
	Leaving *Client
}

// Stats is a point-in-time view of the hub, served on /stats.
type Stats struct {
	Rooms       int `json:"rooms"`
	Players     int `json:"players"`
	Waiting     int `json:"waiting"`
	Connections int `json:"connections"`
}

// Hub owns all room, queue and session state. Run processes registrations,
// inbound events and janitor ticks one at a time; mu is held for each so
// Stats can read a consistent snapshot from other goroutines.
type Hub struct {
	cfg    *Config
	logger *slog.Logger

	mu       sync.RWMutex
	store    *RoomStore
	queue    *MatchQueue
	registry *Registry
	coord    *Coordinator
	janitor  *Janitor

	registerCh chan *Client
	inboundCh  chan *Inbound
	done       chan struct{}
}

func NewHub(cfg *Config, logger *slog.Logger) *Hub {
	store := NewRoomStore(randomRoomCode, time.Now)
	queue := NewMatchQueue()
	registry := NewRegistry(logger)
	return &Hub{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		queue:      queue,
		registry:   registry,
		coord:      NewCoordinator(store, queue, registry, logger),
		janitor:    NewJanitor(store, cfg.RoomMaxAge, logger),
		registerCh: make(chan *Client),
		inboundCh:  make(chan *Inbound, 1024),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	ticker := time.NewTicker(h.cfg.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.registerCh:
			h.addClient(c)

		case in := <-h.inboundCh:
			h.handle(in)

		case now := <-ticker.C:
			h.sweep(now)
		}
	}
}

// Register hands a freshly upgraded client to the hub, which starts its
// pumps. registerCh is unbuffered, so a true result means Run took the
// client. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.registerCh <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister queues the disconnect behind every frame c already submitted.
func (h *Hub) Unregister(c *Client) {
	h.Submit(&Inbound{ConnID: c.id, Leaving: c})
}

func (h *Hub) Submit(in *Inbound) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.inboundCh <- in:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		Rooms:       h.store.Len(),
		Players:     h.store.PlayerCount(),
		Waiting:     h.queue.Len(),
		Connections: h.registry.Len(),
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.registry.Add(c)
	h.coord.Connect(c.id)
	h.registry.Send(c.id, EventConnected, connectedPayload{ID: c.id})
	h.mu.Unlock()

	h.logger.Info("client connected", "conn", c.id, "ip", c.ip, "encoding", c.codec.Name())

	go c.ReadPump()
	go c.WritePump()
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.registry.Has(c.id) {
		return
	}
	h.coord.Disconnect(c.id)
	h.registry.Remove(c)
}

func (h *Hub) handle(in *Inbound) {
	if in.Leaving != nil {
		h.removeClient(in.Leaving)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.registry.Has(in.ConnID) {
		return
	}
	h.coord.Handle(in.ConnID, in.Msg)
}

func (h *Hub) sweep(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := h.janitor.Sweep(now); n > 0 {
		h.logger.Info("janitor sweep", "removed", n, "rooms", h.store.Len())
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.registry.closeAll()
}
