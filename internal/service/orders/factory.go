package orders

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byStatus map[string]actionFunc
}

func newActionFactory(onReady, onPickedUp, onDelivered actionFunc) *actionFactory {
	return &actionFactory{
		byStatus: map[string]actionFunc{
			"ready": onReady,
			// kitchens report "cooked" on the legacy topic
			"cooked":      onReady,
			"picked_up":   onPickedUp,
			"in_delivery": onPickedUp,
			"delivered":   onDelivered,
			"completed":   onDelivered,
		},
	}
}

func (f *actionFactory) get(status string) (actionFunc, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	fn, ok := f.byStatus[status]
	return fn, ok
}
