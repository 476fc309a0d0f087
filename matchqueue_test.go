package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchQueue_PairsFIFO(t *testing.T) {
	q := NewMatchQueue()
	for _, id := range []string{"A", "B", "C", "D"} {
		q.Enqueue(id)
	}

	p1, p2, ok := q.TryPairOne()
	assert.True(t, ok)
	assert.Equal(t, "A", p1)
	assert.Equal(t, "B", p2)

	p1, p2, ok = q.TryPairOne()
	assert.True(t, ok)
	assert.Equal(t, "C", p1)
	assert.Equal(t, "D", p2)

	_, _, ok = q.TryPairOne()
	assert.False(t, ok)
}

func TestMatchQueue_NeedsTwo(t *testing.T) {
	q := NewMatchQueue()
	_, _, ok := q.TryPairOne()
	assert.False(t, ok)

	q.Enqueue("A")
	_, _, ok = q.TryPairOne()
	assert.False(t, ok)
	assert.Equal(t, 1, q.Len(), "a lone entry stays queued")
}

func TestMatchQueue_EnqueueIdempotent(t *testing.T) {
	q := NewMatchQueue()
	assert.True(t, q.Enqueue("A"))
	assert.False(t, q.Enqueue("A"))
	assert.Equal(t, 1, q.Len())

	_, _, ok := q.TryPairOne()
	assert.False(t, ok, "a connection cannot be paired with itself")
}

func TestMatchQueue_Remove(t *testing.T) {
	q := NewMatchQueue()
	q.Enqueue("A")
	q.Enqueue("B")
	q.Enqueue("C")

	assert.True(t, q.Remove("A"))
	assert.False(t, q.Remove("A"))
	assert.False(t, q.Contains("A"))

	p1, p2, ok := q.TryPairOne()
	assert.True(t, ok)
	assert.Equal(t, "B", p1)
	assert.Equal(t, "C", p2)
}
