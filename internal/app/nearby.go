package app

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tourguide/internal/domain"
	"tourguide/internal/geo"
)

const DefaultTopK = 5

type NearbyService struct {
	scorer    Scorer
	proximity *geo.Proximity
	pool      *WorkerPool
}

func NewNearbyService(s Scorer, p *geo.Proximity, pool *WorkerPool) *NearbyService {
	return &NearbyService{scorer: s, proximity: p, pool: pool}
}

type ranked struct {
	attraction domain.Attraction
	distance   float64
}

func rankByDistance(loc domain.Location, catalog []domain.Attraction) []ranked {
	out := make([]ranked, len(catalog))
	for i, a := range catalog {
		out[i] = ranked{attraction: a, distance: geo.Distance(loc, a.Location)}
	}
	// stable: equal distances keep catalog order
	sort.SliceStable(out, func(i, j int) bool { return out[i].distance < out[j].distance })
	return out
}

// Nearest returns the k attractions closest to loc, closest first, annotated with
// distance and the user's reward points. Only the selected k are scored.
// Any scoring failure fails the whole call.
func (s *NearbyService) Nearest(ctx context.Context, userID uuid.UUID, loc domain.Location, catalog []domain.Attraction, k int) ([]domain.NearbyAttraction, error) {
	if k <= 0 || len(catalog) == 0 {
		return []domain.NearbyAttraction{}, nil
	}
	top := rankByDistance(loc, catalog)
	if k < len(top) {
		top = top[:k]
	}

	out := make([]domain.NearbyAttraction, len(top))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range top {
		i, r := i, r
		g.Go(func() error {
			return s.pool.Do(gctx, func(ctx context.Context) error {
				points, err := s.scorer.Score(ctx, r.attraction, userID)
				if err != nil {
					return err
				}
				out[i] = domain.NearbyAttraction{
					AttractionName:     r.attraction.Name,
					AttractionLocation: r.attraction.Location,
					UserLocation:       loc,
					DistanceMiles:      r.distance,
					RewardPoints:       points,
					Attraction:         r.attraction,
				}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// InRange returns the attractions within the proximity range of loc, closest first.
func (s *NearbyService) InRange(loc domain.Location, catalog []domain.Attraction) []domain.Attraction {
	var out []domain.Attraction
	for _, r := range rankByDistance(loc, catalog) {
		if s.proximity.WithinRange(r.attraction, loc) {
			out = append(out, r.attraction)
		}
	}
	return out
}
