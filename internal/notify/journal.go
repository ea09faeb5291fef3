package notify

import (
	"context"
	"time"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/repository"
)

type journalStore interface {
	Append(ctx context.Context, e repository.JournalEntry) (bool, error)
}

// Journal records every order status change in the order journal. Writes run
// on a background worker; Notify never waits for the database.
type Journal struct {
	store   journalStore
	log     logx.Logger
	timeout time.Duration
	now     func() time.Time
	queue   chan repository.JournalEntry
}

// NewJournal creates a journal notifier with a queue of the given size.
func NewJournal(store journalStore, logger logx.Logger, size int, timeout time.Duration) *Journal {
	if logger == nil {
		logger = logx.Nop()
	}
	if size <= 0 {
		size = 256
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Journal{
		store:   store,
		log:     logger,
		timeout: timeout,
		now:     time.Now,
		queue:   make(chan repository.JournalEntry, size),
	}
}

// Notify implements Notifier. Status updates are fanned out to several roles;
// only the client copy is journaled.
func (j *Journal) Notify(_ context.Context, n domain.Notification) {
	if n.Event != domain.EventOrderStatusUpdate || n.Role != domain.RoleClient {
		return
	}
	p, ok := n.Payload.(domain.OrderStatusUpdate)
	if !ok {
		return
	}
	e := repository.JournalEntry{OrderID: p.ID, Status: p.Status, Message: p.Message, RecordedAt: j.now().UTC()}
	select {
	case j.queue <- e:
	default:
		j.log.Warn("journal queue full, status not recorded", logx.OrderID(p.ID), logx.String("status", string(p.Status)))
	}
}

// Run writes queued entries until ctx is cancelled, then drains what is left.
func (j *Journal) Run(ctx context.Context) error {
	for {
		select {
		case e := <-j.queue:
			j.write(ctx, e)
		case <-ctx.Done():
			for {
				select {
				case e := <-j.queue:
					j.write(context.Background(), e)
				default:
					return nil
				}
			}
		}
	}
}

func (j *Journal) write(ctx context.Context, e repository.JournalEntry) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()
	if _, err := j.store.Append(ctx, e); err != nil {
		j.log.Error("journal append", logx.OrderID(e.OrderID), logx.String("status", string(e.Status)), logx.Err(err))
	}
}
