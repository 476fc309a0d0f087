package main

import (
	"log/slog"
	"time"
)

// Janitor evicts empty rooms that outlived maxAge. RemovePlayer already
// deletes rooms as they empty, so a sweep normally finds nothing.
type Janitor struct {
	store  *RoomStore
	maxAge time.Duration
	logger *slog.Logger
}

func NewJanitor(store *RoomStore, maxAge time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{store: store, maxAge: maxAge, logger: logger}
}

func (j *Janitor) Sweep(now time.Time) int {
	swept := j.store.SweepStale(j.maxAge, now)
	for _, code := range swept {
		j.logger.Info("stale room removed", "room", code)
	}
	return len(swept)
}
