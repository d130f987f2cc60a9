package applog

import (
	"sync"
	"time"
)

// Entry is one captured warning or error.
type Entry struct {
	Seq     uint64    `json:"seq"`
	Time    time.Time `json:"ts"`
	Level   string    `json:"level"`
	Message string    `json:"msg"`
	Source  string    `json:"source,omitempty"`
}

// String renders the entry as a single status line.
func (e Entry) String() string {
	line := e.Time.Format("15:04:05") + " " + e.Level + " " + e.Message
	if e.Source != "" {
		line += " (" + e.Source + ")"
	}
	return line
}

// Ring is a fixed-capacity, concurrency-safe buffer of recent entries. The
// oldest entry is overwritten once it is full.
type Ring struct {
	mu    sync.Mutex
	buf   []Entry
	head  int
	count int
	seq   uint64
}

// NewRing allocates a ring. Capacities below 1 are clamped to 1.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]Entry, capacity)}
}

// Push records e, assigning it the next sequence number.
func (r *Ring) Push(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e.Seq = r.seq
	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = e
		r.count++
		return
	}
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
}

// Snapshot returns the entries oldest first.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, r.count)
	for i := range r.count {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Len returns the number of stored entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
