package main

import "slices"

// MatchQueue is the FIFO list of connections waiting for a random opponent.
// A connection appears at most once. Like RoomStore it is owned by the hub
// goroutine.
type MatchQueue struct {
	waiting []string
}

func NewMatchQueue() *MatchQueue {
	return &MatchQueue{}
}

// Enqueue appends connID unless it is already waiting.
func (q *MatchQueue) Enqueue(connID string) bool {
	if q.Contains(connID) {
		return false
	}
	q.waiting = append(q.waiting, connID)
	return true
}

// TryPairOne pops the two longest-waiting connections.
func (q *MatchQueue) TryPairOne() (string, string, bool) {
	if len(q.waiting) < 2 {
		return "", "", false
	}
	p1, p2 := q.waiting[0], q.waiting[1]
	q.waiting = slices.Delete(q.waiting, 0, 2)
	return p1, p2, true
}

func (q *MatchQueue) Remove(connID string) bool {
	i := slices.Index(q.waiting, connID)
	if i < 0 {
		return false
	}
	q.waiting = slices.Delete(q.waiting, i, i+1)
	return true
}

func (q *MatchQueue) Contains(connID string) bool {
	return slices.Contains(q.waiting, connID)
}

func (q *MatchQueue) Len() int {
	return len(q.waiting)
}
