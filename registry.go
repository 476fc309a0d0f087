package main

import "log/slog"

// Transport is what the coordinator needs from the connection layer:
// unicast, sender-excluding multicast, and group membership. Sends are
// fire-and-forget.
type Transport interface {
	Send(connID, event string, data any)
	BroadcastToGroup(groupID, event string, data any, excluding string)
	JoinGroup(connID, groupID string)
	LeaveGroup(connID, groupID string)
}

// Registry maps live connection ids to clients and tracks the multicast
// groups they belong to. Only the hub goroutine touches it.
type Registry struct {
	logger  *slog.Logger
	clients map[string]*Client
	groups  map[string]map[string]struct{}
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:  logger,
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]struct{}),
	}
}

func (r *Registry) Add(c *Client) {
	r.clients[c.id] = c
}

// Remove drops c from the registry and every group and closes its send
// channel. It returns false when c is not the registered client for its id.
func (r *Registry) Remove(c *Client) bool {
	if cur, ok := r.clients[c.id]; !ok || cur != c {
		return false
	}
	delete(r.clients, c.id)
	for groupID := range r.groups {
		r.LeaveGroup(c.id, groupID)
	}
	c.Close()
	return true
}

func (r *Registry) Has(connID string) bool {
	_, ok := r.clients[connID]
	return ok
}

func (r *Registry) Len() int {
	return len(r.clients)
}

func (r *Registry) Send(connID, event string, data any) {
	c, ok := r.clients[connID]
	if !ok {
		return
	}
	r.deliver(c, &Message{Event: event, Data: data})
}

func (r *Registry) BroadcastToGroup(groupID, event string, data any, excluding string) {
	members, ok := r.groups[groupID]
	if !ok {
		return
	}
	msg := &Message{Event: event, Data: data}
	for connID := range members {
		if connID == excluding {
			continue
		}
		if c, ok := r.clients[connID]; ok {
			r.deliver(c, msg)
		}
	}
}

func (r *Registry) JoinGroup(connID, groupID string) {
	members, ok := r.groups[groupID]
	if !ok {
		members = make(map[string]struct{})
		r.groups[groupID] = members
	}
	members[connID] = struct{}{}
}

func (r *Registry) LeaveGroup(connID, groupID string) {
	members, ok := r.groups[groupID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.groups, groupID)
	}
}

func (r *Registry) deliver(c *Client, msg *Message) {
	if err := c.Deliver(msg); err != nil {
		r.logger.Warn("dropping outbound event", "conn", c.id, "event", msg.Event, "err", err)
	}
}

func (r *Registry) closeAll() {
	for _, c := range r.clients {
		c.Close()
	}
	r.clients = make(map[string]*Client)
	r.groups = make(map[string]map[string]struct{})
}
