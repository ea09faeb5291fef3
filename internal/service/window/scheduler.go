// Package window implements cancellable, one-shot decision windows keyed by order id.
package window

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"service-dispatch/internal/domain"
)

var (
	// ErrWindowActive is returned by Start when the order already has a live window.
	ErrWindowActive = errors.New("decision window already active")
	// ErrInvalidDuration is returned by Start for non-positive durations.
	ErrInvalidDuration = errors.New("decision window duration must be positive")
	// ErrSchedulerStopped is returned by Start after Stop.
	ErrSchedulerStopped = errors.New("window scheduler stopped")
)

const (
	stateLive int32 = iota
	stateFired
	stateCancelled
)

// ExpireFunc runs when a window elapses without being cancelled.
type ExpireFunc func(w *Window)

// Window is a single decision window of one order.
type Window struct {
	OrderID   string
	Phase     domain.Phase
	StartedAt time.Time
	Duration  time.Duration

	state atomic.Int32
	timer Stopper
}

// Cancelled reports whether the window was cancelled before expiring.
func (w *Window) Cancelled() bool { return w.state.Load() == stateCancelled }

// Fired reports whether the expiry callback was claimed.
func (w *Window) Fired() bool { return w.state.Load() == stateFired }

// View returns the window as seen at now.
func (w *Window) View(now time.Time) domain.WindowView {
	left := w.StartedAt.Add(w.Duration).Sub(now)
	if left < 0 {
		left = 0
	}
	return domain.WindowView{Phase: w.Phase, StartedAt: w.StartedAt, Duration: w.Duration, TimeLeft: left}
}

// Scheduler owns at most one live Window per order.
type Scheduler struct {
	clock   Clock
	mu      sync.Mutex
	live    map[string]*Window
	stopped bool
}

// NewScheduler creates a scheduler. A nil clock means RealClock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{clock: clock, live: make(map[string]*Window)}
}

// Now exposes the scheduler clock.
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// Start schedules onExpire for orderID after d. onExpire fires at most once and
// never after Cancel for the same window has returned.
func (s *Scheduler) Start(orderID string, phase domain.Phase, d time.Duration, onExpire ExpireFunc) (*Window, error) {
	if d <= 0 {
		return nil, ErrInvalidDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, ErrSchedulerStopped
	}
	if _, ok := s.live[orderID]; ok {
		return nil, ErrWindowActive
	}

	w := &Window{OrderID: orderID, Phase: phase, StartedAt: s.clock.Now(), Duration: d}
	s.live[orderID] = w
	w.timer = s.clock.AfterFunc(d, func() { s.expire(w, onExpire) })
	return w, nil
}

func (s *Scheduler) expire(w *Window, onExpire ExpireFunc) {
	if !w.state.CompareAndSwap(stateLive, stateFired) {
		return
	}
	s.release(w)
	if onExpire != nil {
		onExpire(w)
	}
}

// Cancel cancels the live window of orderID. It is safe to call on expired,
// cancelled or unknown windows and reports whether a live window was cancelled.
func (s *Scheduler) Cancel(orderID string) bool {
	s.mu.Lock()
	w, ok := s.live[orderID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return s.cancel(w)
}

func (s *Scheduler) cancel(w *Window) bool {
	if !w.state.CompareAndSwap(stateLive, stateCancelled) {
		return false
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	s.release(w)
	return true
}

// release drops w from the index unless a newer window replaced it.
func (s *Scheduler) release(w *Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.live[w.OrderID]; ok && cur == w {
		delete(s.live, w.OrderID)
	}
}

// Active returns the live window of orderID.
func (s *Scheduler) Active(orderID string) (*Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.live[orderID]
	return w, ok
}

// Len returns the number of live windows.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Stop cancels every live window and rejects further Start calls.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	ws := make([]*Window, 0, len(s.live))
	for _, w := range s.live {
		ws = append(ws, w)
	}
	s.mu.Unlock()

	for _, w := range ws {
		s.cancel(w)
	}
}
