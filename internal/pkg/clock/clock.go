// Package clock supplies the time source stamped onto catalog records.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time. Products take their creation time and
// outbox events their timestamp from it.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// FakeClock is a manually driven clock. It is safe for concurrent use so
// that concurrent writers in tests can share one.
type FakeClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFake returns a FakeClock stopped at t, converted to UTC.
func NewFake(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (f *FakeClock) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

func (f *FakeClock) Set(t time.Time) {
	f.mu.Lock()
	f.now = t.UTC()
	f.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new time.
func (f *FakeClock) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}
