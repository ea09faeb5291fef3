package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/domain"
)

// JournalEntry is one recorded status of an order.
type JournalEntry struct {
	OrderID    string
	Status     domain.OrderStatus
	Message    string
	RecordedAt time.Time
}

// JournalRepo keeps the status history of orders.
type JournalRepo struct{ db *pgxpool.Pool }

// NewJournalRepo creates a new JournalRepo.
func NewJournalRepo(db *pgxpool.Pool) *JournalRepo { return &JournalRepo{db: db} }

// Append records a status. Recording the same status twice is a no-op and
// reports false.
func (r *JournalRepo) Append(ctx context.Context, e JournalEntry) (bool, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO order_journal (order_id, status, message, recorded_at) VALUES ($1, $2, $3, $4)`,
		e.OrderID, string(e.Status), e.Message, e.RecordedAt)
	if err != nil {
		if IsDuplicate(err) {
			return false, nil
		}
		return false, fmt.Errorf("append journal %s/%s: %w", e.OrderID, e.Status, err)
	}
	return true, nil
}

// History returns the recorded statuses of an order, oldest first.
func (r *JournalRepo) History(ctx context.Context, orderID string) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT order_id, status, message, recorded_at
		FROM order_journal WHERE order_id=$1 ORDER BY recorded_at, id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("journal history %s: %w", orderID, err)
	}
	defer rows.Close()

	out := make([]JournalEntry, 0)
	for rows.Next() {
		var e JournalEntry
		var status string
		if err := rows.Scan(&e.OrderID, &status, &e.Message, &e.RecordedAt); err != nil {
			return nil, err
		}
		e.Status = domain.OrderStatus(status)
		out = append(out, e)
	}
	return out, rows.Err()
}
