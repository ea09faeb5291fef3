package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS couriers (
	id           TEXT PRIMARY KEY,
	score        DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
	num_ratings  INTEGER NOT NULL DEFAULT 0,
	lat          DOUBLE PRECISION NOT NULL DEFAULT 0,
	lon          DOUBLE PRECISION NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS restaurants (
	id  TEXT PRIMARY KEY,
	lat DOUBLE PRECISION NOT NULL,
	lon DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS order_journal (
	id          BIGSERIAL PRIMARY KEY,
	order_id    TEXT NOT NULL,
	status      TEXT NOT NULL,
	message     TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (order_id, status)
);
`

// Migrate creates the tables used by the service when they are missing.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
