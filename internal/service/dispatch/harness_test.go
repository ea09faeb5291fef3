package dispatch_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/service/dispatch"
	"service-dispatch/internal/service/registry"
	"service-dispatch/internal/service/window"
	testlog "service-dispatch/internal/testutil"
	"service-dispatch/internal/testutil/fakeclock"
	"service-dispatch/internal/testutil/notifyrec"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// Seed couriers: livreur1 and livreur2 reproduce the 2.0 / 2.5 recommendation pair.
var seedProfiles = map[string]domain.CourierProfile{
	"livreur1": {CourierID: "livreur1", Score: 4, DistanceKm: 2},
	"livreur2": {CourierID: "livreur2", Score: 3, DistanceKm: 0.5},
	"livreur3": {CourierID: "livreur3", Score: 4.6, DistanceKm: 3},
}

type harness struct {
	t       *testing.T
	ctx     context.Context
	clock   *fakeclock.Clock
	windows *window.Scheduler
	dir     *MockCourierDirectory
	rec     *notifyrec.Recorder
	logs    *testlog.Recorder
	c       *dispatch.Coordinator
}

type harnessOption func(*harnessSetup)

type harnessSetup struct {
	cfg     dispatch.Config
	clock   window.Clock
	options []dispatch.Option
}

func withConfig(f func(*dispatch.Config)) harnessOption {
	return func(s *harnessSetup) { f(&s.cfg) }
}

func withRealClock() harnessOption {
	return func(s *harnessSetup) { s.clock = window.RealClock{} }
}

func withOptions(opts ...dispatch.Option) harnessOption {
	return func(s *harnessSetup) { s.options = append(s.options, opts...) }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	setup := harnessSetup{cfg: dispatch.DefaultConfig()}
	for _, o := range opts {
		o(&setup)
	}

	h := &harness{t: t, ctx: context.Background(), rec: notifyrec.New(), logs: testlog.New()}
	if setup.clock == nil {
		h.clock = fakeclock.New(epoch)
		setup.clock = h.clock
	}
	h.windows = window.NewScheduler(setup.clock)
	t.Cleanup(h.windows.Stop)

	ctrl := gomock.NewController(t)
	h.dir = NewMockCourierDirectory(ctrl)
	h.dir.EXPECT().
		Profile(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, courierID string) (domain.CourierProfile, error) {
			p, ok := seedProfiles[courierID]
			if !ok {
				return domain.CourierProfile{}, fmt.Errorf("courier %s: %w", courierID, apperr.ErrNotFound)
			}
			return p, nil
		}).
		AnyTimes()

	options := append([]dispatch.Option{dispatch.WithLogger(h.logs.Logger())}, setup.options...)
	c, err := dispatch.New(setup.cfg, registry.New(), h.windows, h.dir, h.rec, options...)
	require.NoError(t, err)
	h.c = c
	return h
}

func (h *harness) place(items ...string) domain.Order {
	h.t.Helper()
	if len(items) == 0 {
		items = []string{"pizza"}
	}
	o, err := h.c.PlaceOrder(h.ctx, "client1", "La Bonne Fourchette", items)
	require.NoError(h.t, err)
	return o
}

func (h *harness) ready(orderID string) {
	h.t.Helper()
	_, err := h.c.OnOrderReady(h.ctx, orderID)
	require.NoError(h.t, err)
}

func (h *harness) accept(orderID string, couriers ...string) {
	h.t.Helper()
	for _, id := range couriers {
		_, err := h.c.CourierAccept(h.ctx, orderID, id)
		require.NoError(h.t, err, id)
	}
}

// awaiting drives a fresh order up to the manager decision with the given offers.
func (h *harness) awaiting(couriers ...string) domain.Order {
	h.t.Helper()
	o := h.place()
	h.ready(o.ID)
	h.accept(o.ID, couriers...)
	h.clock.Advance(dispatch.DefaultWindow)
	return h.status(o.ID, domain.StatusAwaitingManagerDecision)
}

func (h *harness) status(orderID string, want domain.OrderStatus) domain.Order {
	h.t.Helper()
	o, err := h.c.Order(orderID)
	require.NoError(h.t, err)
	require.Equal(h.t, want, o.Status)
	return o
}

func (h *harness) forCourier(event, courierID string) []domain.Notification {
	var out []domain.Notification
	for _, n := range h.rec.ByEvent(event) {
		if n.Role == domain.RoleCourier && n.Recipient == courierID {
			out = append(out, n)
		}
	}
	return out
}
