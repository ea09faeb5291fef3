// Package notify delivers dispatch notifications to their subscribers.
package notify

import (
	"context"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// Notifier accepts a notification for best-effort delivery.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// Fanout forwards every notification to all of its notifiers, in order.
type Fanout []Notifier

// Notify implements Notifier.
func (f Fanout) Notify(ctx context.Context, n domain.Notification) {
	for _, next := range f {
		if next != nil {
			next.Notify(ctx, n)
		}
	}
}

// Log writes notifications to a logger. It is the notifier of last resort when
// no broker is configured.
type Log struct {
	log logx.Logger
}

// NewLog creates a logging notifier.
func NewLog(l logx.Logger) *Log {
	if l == nil {
		l = logx.Nop()
	}
	return &Log{log: l}
}

// Notify implements Notifier.
func (l *Log) Notify(_ context.Context, n domain.Notification) {
	l.log.Debug("notification",
		logx.String("role", string(n.Role)),
		logx.String("recipient", n.Recipient),
		logx.OrderID(n.OrderID),
		logx.String("event", n.Event),
		logx.Any("payload", n.Payload),
	)
}
