package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seatwise/seatwise/internal/domain"
	"github.com/seatwise/seatwise/internal/repository"
)

const (
	slugLength      = 10
	slugCharset     = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugMaxAttempts = 5
)

type VenueRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *VenueRepo) With(db DB) *VenueRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *VenueRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func randomSlug() string {
	b := make([]byte, slugLength)
	for i := range b {
		b[i] = slugCharset[rand.Intn(len(slugCharset))]
	}
	return string(b)
}

// CreateWithRetry inserts an empty venue under a fresh random slug,
// retrying on slug collision.
//
// Returns:
//   - *domain.Venue: the created venue.
//   - error: repository.ErrConflict when all attempts collided.
func (r *VenueRepo) CreateWithRetry(ctx context.Context) (*domain.Venue, error) {
	const op = "postgres.VenueRepo.CreateWithRetry"

	db := r.handle()

	data, err := json.Marshal(domain.NewVenueData())
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	for attempt := 0; attempt < slugMaxAttempts; attempt++ {
		slug := randomSlug()

		var v domain.Venue
		var raw []byte
		err := db.QueryRow(ctx,
			`INSERT INTO venues (slug, venue_data)
			 VALUES ($1, $2)
			 RETURNING slug, venue_data, created_at, updated_at`,
			slug, data,
		).Scan(&v.Slug, &raw, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			if errors.Is(translateDBErr(err), repository.ErrConflict) {
				continue
			}
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		if err := json.Unmarshal(raw, &v.VenueData); err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}

		return &v, nil
	}

	return nil, fmt.Errorf("%s:%w", op, repository.ErrConflict)
}

// Get retrieves a venue by slug. The PIN hash stays out of the result.
//
// Returns:
//   - *domain.Venue: the venue when found.
//   - error: repository.ErrNotFound if the venue is not found.
func (r *VenueRepo) Get(ctx context.Context, slug string) (*domain.Venue, error) {
	const op = "postgres.VenueRepo.Get"

	db := r.handle()

	var v domain.Venue
	var raw []byte
	err := db.QueryRow(ctx,
		`SELECT slug, venue_data, created_at, updated_at
		 FROM venues WHERE slug = $1`,
		slug,
	).Scan(&v.Slug, &raw, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if err := json.Unmarshal(raw, &v.VenueData); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &v, nil
}

// GetPINHash retrieves the stored bcrypt hash for slug. A venue without a
// PIN yields hash == nil.
//
// Returns:
//   - error: repository.ErrNotFound if the venue is not found.
func (r *VenueRepo) GetPINHash(ctx context.Context, slug string) (*string, error) {
	const op = "postgres.VenueRepo.GetPINHash"

	db := r.handle()

	var hash *string
	err := db.QueryRow(ctx,
		`SELECT pin_hash FROM venues WHERE slug = $1`,
		slug,
	).Scan(&hash)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return hash, nil
}

// Upsert writes the full snapshot under slug, creating the row when absent.
// A nil pinHash leaves any stored hash untouched, so writes without a PIN
// can never strip protection from a venue.
func (r *VenueRepo) Upsert(ctx context.Context, slug string, data domain.VenueData, pinHash *string) (*domain.Venue, error) {
	const op = "postgres.VenueRepo.Upsert"

	db := r.handle()

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var v domain.Venue
	var rawOut []byte
	err = db.QueryRow(ctx,
		`INSERT INTO venues (slug, venue_data, pin_hash)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (slug) DO UPDATE SET
		   venue_data = EXCLUDED.venue_data,
		   pin_hash   = CASE
		     WHEN EXCLUDED.pin_hash IS NOT NULL THEN EXCLUDED.pin_hash
		     ELSE venues.pin_hash
		   END,
		   updated_at = now()
		 RETURNING slug, venue_data, created_at, updated_at`,
		slug, raw, pinHash,
	).Scan(&v.Slug, &rawOut, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if err := json.Unmarshal(rawOut, &v.VenueData); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &v, nil
}
