package clock

import "time"

// Clock supplies the current instant to every operation that compares
// against "now". Injecting it keeps the auction state machine deterministic,
// wall-clock time is never read inside the domain directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall-clock backed Clock used in production wiring.
func System() Clock { return systemClock{} }

// Fixed is a manually controlled Clock for tests.
type Fixed struct {
	current time.Time
}

// NewFixed creates a Fixed clock stopped at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t}
}

func (f *Fixed) Now() time.Time { return f.current }

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) { f.current = t }

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.current = f.current.Add(d) }
