package testsupport

import (
	"testing"
	"time"

	"studypulse/internal/config"
	"studypulse/internal/sessions"
)

// MustOpenStore opens the configured sessions.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config, opts ...sessions.Option) sessions.Store {
	t.Helper()

	store, err := sessions.Open(cfg, opts...)
	if err != nil {
		t.Fatalf("sessions.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// Clock is a manually advanced time source.
type Clock struct {
	now time.Time
}

// NewClock starts a clock at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current clock time.
func (c *Clock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
