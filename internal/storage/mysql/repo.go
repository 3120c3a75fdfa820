package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"tourguide/internal/domain"
	"tourguide/internal/geo"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertAttraction inserts a, or refreshes the row with the same id. The geohash column is
// filled from the location for ad-hoc spatial queries.
func (r *Repo) UpsertAttraction(ctx context.Context, a domain.Attraction) error {
	if err := a.Location.Validate(); err != nil {
		return fmt.Errorf("attraction %s: %w", a.ID, err)
	}
	_, err := r.db.ExecContext(ctx, upsertAttractionSQL,
		a.ID.String(),
		a.Name,
		a.City,
		a.State,
		a.Location.Latitude,
		a.Location.Longitude,
		geo.Cell(a.Location, geo.CellPrecision),
	)
	return err
}

// ListAttractions returns the catalog in first-inserted order.
func (r *Repo) ListAttractions(ctx context.Context) ([]domain.Attraction, error) {
	return r.query(ctx, listAttractionsSQL)
}

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]domain.Attraction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Attraction, 0, 32)
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAttraction(rows *sql.Rows) (domain.Attraction, error) {
	var (
		a   domain.Attraction
		id  string
		lat float64
		lon float64
	)
	if err := rows.Scan(&id, &a.Name, &a.City, &a.State, &lat, &lon); err != nil {
		return domain.Attraction{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.Attraction{}, fmt.Errorf("attraction id %q: %w", id, err)
	}
	a.ID = parsed
	a.Location = domain.Location{Latitude: lat, Longitude: lon}
	return a, nil
}
