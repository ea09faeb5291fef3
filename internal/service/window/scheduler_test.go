package window_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/service/window"
	"service-dispatch/internal/testutil/fakeclock"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestScheduler_Start_FiresOnceAfterDuration(t *testing.T) {
	t.Parallel()

	clk := fakeclock.New(t0)
	s := window.NewScheduler(clk)

	var fired int
	w, err := s.Start("o1", domain.PhaseAcceptance, time.Minute, func(got *window.Window) {
		fired++
		require.Equal(t, "o1", got.OrderID)
		require.Equal(t, domain.PhaseAcceptance, got.Phase)
	})
	require.NoError(t, err)
	require.Equal(t, t0, w.StartedAt)

	clk.Advance(59 * time.Second)
	require.Equal(t, 0, fired)
	_, live := s.Active("o1")
	require.True(t, live)

	clk.Advance(time.Second)
	require.Equal(t, 1, fired)
	require.True(t, w.Fired())

	clk.Advance(time.Hour)
	require.Equal(t, 1, fired)
	_, live = s.Active("o1")
	require.False(t, live)
}

func TestScheduler_Start_RejectsSecondLiveWindow(t *testing.T) {
	t.Parallel()

	s := window.NewScheduler(fakeclock.New(t0))

	_, err := s.Start("o1", domain.PhaseAcceptance, time.Minute, nil)
	require.NoError(t, err)

	_, err = s.Start("o1", domain.PhaseManagerDecision, time.Minute, nil)
	require.ErrorIs(t, err, window.ErrWindowActive)

	_, err = s.Start("o2", domain.PhaseAcceptance, time.Minute, nil)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
}

func TestScheduler_Start_InvalidDuration(t *testing.T) {
	t.Parallel()

	s := window.NewScheduler(fakeclock.New(t0))
	_, err := s.Start("o1", domain.PhaseAcceptance, 0, nil)
	require.ErrorIs(t, err, window.ErrInvalidDuration)
	require.Equal(t, 0, s.Len())
}

func TestScheduler_Cancel_IsIdempotentAndPreventsExpiry(t *testing.T) {
	t.Parallel()

	clk := fakeclock.New(t0)
	s := window.NewScheduler(clk)

	var fired int
	w, err := s.Start("o1", domain.PhaseManagerDecision, time.Minute, func(*window.Window) { fired++ })
	require.NoError(t, err)

	require.True(t, s.Cancel("o1"))
	require.False(t, s.Cancel("o1"))
	require.False(t, s.Cancel("unknown"))
	require.True(t, w.Cancelled())

	clk.Advance(2 * time.Minute)
	require.Equal(t, 0, fired)
	require.Equal(t, 0, clk.Pending())
}

func TestScheduler_Cancel_AfterExpiryReturnsFalse(t *testing.T) {
	t.Parallel()

	clk := fakeclock.New(t0)
	s := window.NewScheduler(clk)

	_, err := s.Start("o1", domain.PhaseAcceptance, time.Second, func(*window.Window) {})
	require.NoError(t, err)
	clk.Advance(time.Second)

	require.False(t, s.Cancel("o1"))
}

func TestScheduler_RestartAfterExpiry(t *testing.T) {
	t.Parallel()

	clk := fakeclock.New(t0)
	s := window.NewScheduler(clk)

	var phases []domain.Phase
	_, err := s.Start("o1", domain.PhaseAcceptance, time.Minute, func(w *window.Window) {
		phases = append(phases, w.Phase)
		_, err := s.Start("o1", domain.PhaseManagerDecision, time.Minute, func(w *window.Window) {
			phases = append(phases, w.Phase)
		})
		require.NoError(t, err)
	})
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	require.Equal(t, []domain.Phase{domain.PhaseAcceptance, domain.PhaseManagerDecision}, phases)
}

func TestWindow_View_TimeLeft(t *testing.T) {
	t.Parallel()

	clk := fakeclock.New(t0)
	s := window.NewScheduler(clk)
	w, err := s.Start("o1", domain.PhaseAcceptance, time.Minute, nil)
	require.NoError(t, err)

	v := w.View(t0.Add(15 * time.Second))
	require.Equal(t, 45*time.Second, v.TimeLeft)
	require.Equal(t, domain.PhaseAcceptance, v.Phase)
	require.Equal(t, time.Duration(0), w.View(t0.Add(time.Hour)).TimeLeft)
}

func TestScheduler_Stop_CancelsAndRejects(t *testing.T) {
	t.Parallel()

	clk := fakeclock.New(t0)
	s := window.NewScheduler(clk)

	var fired int
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.Start(id, domain.PhaseAcceptance, time.Minute, func(*window.Window) { fired++ })
		require.NoError(t, err)
	}

	s.Stop()
	clk.Advance(time.Hour)
	require.Equal(t, 0, fired)
	require.Equal(t, 0, s.Len())

	_, err := s.Start("d", domain.PhaseAcceptance, time.Minute, nil)
	require.ErrorIs(t, err, window.ErrSchedulerStopped)
}

func TestScheduler_CancelRacingExpiry_ExactlyOneWins(t *testing.T) {
	t.Parallel()

	for i := 0; i < 200; i++ {
		s := window.NewScheduler(nil)

		var fired atomic.Int32
		_, err := s.Start("o1", domain.PhaseManagerDecision, time.Millisecond, func(*window.Window) {
			fired.Add(1)
		})
		require.NoError(t, err)

		var cancelled atomic.Bool
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(time.Millisecond)
			cancelled.Store(s.Cancel("o1"))
		}()
		wg.Wait()

		require.Eventually(t, func() bool {
			return cancelled.Load() || fired.Load() == 1
		}, time.Second, time.Millisecond)
		if cancelled.Load() {
			time.Sleep(3 * time.Millisecond)
			require.Equal(t, int32(0), fired.Load())
		}
	}
}
