package window

import "time"

// Stopper cancels a scheduled callback. Stop reports whether the call prevented it from running.
type Stopper interface {
	Stop() bool
}

// Clock provides current time and one-shot scheduling.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Stopper
}

// RealClock is the default clock backed by the time package.
type RealClock struct{}

// Now returns current time.
func (RealClock) Now() time.Time { return time.Now() }

// AfterFunc schedules f on its own goroutine after d.
func (RealClock) AfterFunc(d time.Duration, f func()) Stopper { return time.AfterFunc(d, f) }
