package orders

import (
	"context"
	"fmt"
	"strings"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/logx"
)

// Processor turns inbound order signals into coordinator calls
type Processor struct {
	dispatch Dispatcher
	log      logx.Logger
	factory  *actionFactory
}

// NewProcessor creates a new orders.Processor
func NewProcessor(d Dispatcher, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{
		dispatch: d,
		log:      logger,
	}
	p.factory = newActionFactory(p.onReady, p.onPickedUp, p.onDelivered)
	return p
}

// Handle processes a single orders.Event. Unknown statuses are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		p.log.Debug("order signal ignored", logx.OrderID(e.OrderID), logx.String("status", e.Status))
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onReady(ctx context.Context, e Event) error {
	_, err := p.dispatch.OnOrderReady(ctx, e.OrderID)
	return err
}

func (p *Processor) onPickedUp(ctx context.Context, e Event) error {
	if strings.TrimSpace(e.CourierID) == "" {
		return fmt.Errorf("pickup of %s without courier_id: %w", e.OrderID, apperr.ErrInvalid)
	}
	_, err := p.dispatch.StartDelivery(ctx, e.OrderID, e.CourierID)
	return err
}

func (p *Processor) onDelivered(ctx context.Context, e Event) error {
	_, err := p.dispatch.MarkDelivered(ctx, e.OrderID)
	return err
}
