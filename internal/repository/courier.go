package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/domain"
)

// CourierRepo stores couriers and restaurant locations.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

// Get returns the courier or nil when it does not exist.
func (r *CourierRepo) Get(ctx context.Context, id string) (*domain.Courier, error) {
	var c domain.Courier
	err := r.db.QueryRow(ctx,
		`SELECT id, score, num_ratings, lat, lon FROM couriers WHERE id=$1`, id,
	).Scan(&c.ID, &c.Score, &c.Ratings, &c.Position.Lat, &c.Position.Lon)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %s: %w", id, err)
	}
	return &c, nil
}

// Upsert inserts the courier or refreshes its initial score and position.
// Accumulated ratings are kept.
func (r *CourierRepo) Upsert(ctx context.Context, c domain.Courier) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO couriers (id, score, lat, lon) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			score      = CASE WHEN couriers.num_ratings = 0 THEN EXCLUDED.score ELSE couriers.score END,
			lat        = EXCLUDED.lat,
			lon        = EXCLUDED.lon,
			updated_at = now()
	`, c.ID, c.Score, c.Position.Lat, c.Position.Lon)
	if err != nil {
		return fmt.Errorf("upsert courier %s: %w", c.ID, err)
	}
	return nil
}

// Seed upserts couriers and restaurants in one transaction.
func (r *CourierRepo) Seed(ctx context.Context, cs []domain.Courier, rs []domain.Restaurant) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, c := range cs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO couriers (id, score, lat, lon) VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO NOTHING
			`, c.ID, c.Score, c.Position.Lat, c.Position.Lon); err != nil {
				return fmt.Errorf("seed courier %s: %w", c.ID, err)
			}
		}
		for _, rest := range rs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO restaurants (id, lat, lon) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET lat = EXCLUDED.lat, lon = EXCLUDED.lon
			`, rest.ID, rest.Position.Lat, rest.Position.Lon); err != nil {
				return fmt.Errorf("seed restaurant %s: %w", rest.ID, err)
			}
		}
		return nil
	})
}

// UpdatePosition moves a courier. It reports whether the courier exists.
func (r *CourierRepo) UpdatePosition(ctx context.Context, id string, p domain.GeoPoint) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE couriers SET lat=$2, lon=$3, updated_at=now() WHERE id=$1`, id, p.Lat, p.Lon)
	if err != nil {
		return false, fmt.Errorf("update courier %s position: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// AddRating folds a rating into the courier's average score.
// It reports whether the courier exists.
func (r *CourierRepo) AddRating(ctx context.Context, id string, rating float64) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE couriers SET
			total_rating = total_rating + $2,
			num_ratings  = num_ratings + 1,
			score        = ROUND(((total_rating + $2) / (num_ratings + 1))::numeric, 2),
			updated_at   = now()
		WHERE id = $1
	`, id, rating)
	if err != nil {
		return false, fmt.Errorf("add rating for courier %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// RestaurantPosition returns the restaurant location or nil when unknown.
func (r *CourierRepo) RestaurantPosition(ctx context.Context, id string) (*domain.GeoPoint, error) {
	var p domain.GeoPoint
	err := r.db.QueryRow(ctx, `SELECT lat, lon FROM restaurants WHERE id=$1`, id).Scan(&p.Lat, &p.Lon)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get restaurant %s: %w", id, err)
	}
	return &p, nil
}
