package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AttractionCatalog interface {
	ListAttractions(ctx context.Context) ([]Attraction, error)
}

type AttractionWriter interface {
	UpsertAttraction(ctx context.Context, a Attraction) error
}

type LocationOracle interface {
	CurrentLocation(ctx context.Context, userID uuid.UUID) (VisitedLocation, error)
}

// ScoringOracle may block for a long time; implementations must be safe for concurrent use.
type ScoringOracle interface {
	PointsFor(ctx context.Context, attractionID, userID uuid.UUID) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
