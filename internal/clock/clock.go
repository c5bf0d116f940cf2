package clock

import (
	"sync/atomic"
	"time"
)

// Clock supplies the integer timestamps the vault accrues interest against.
// Readings must never go backwards.
type Clock interface {
	Now() int64
}

// System reads wall clock seconds.
type System struct{}

// Now returns the current Unix time in seconds.
func (System) Now() int64 {
	return time.Now().Unix()
}

// Manual is a settable clock for deterministic accrual tests.
type Manual struct {
	now atomic.Int64
}

// NewManual builds a manual clock starting at the given instant.
func NewManual(start int64) *Manual {
	m := &Manual{}
	m.now.Store(start)
	return m
}

// Now returns the currently set instant.
func (m *Manual) Now() int64 {
	return m.now.Load()
}

// Set moves the clock to the given instant.
func (m *Manual) Set(now int64) {
	m.now.Store(now)
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d int64) {
	m.now.Add(d)
}
