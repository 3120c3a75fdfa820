package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tourguide/internal/adapters/observability"
	"tourguide/internal/domain"
	"tourguide/internal/geo"
)

// RewardService credits users for attractions they have visited.
type RewardService struct {
	catalog   domain.AttractionCatalog
	scorer    Scorer
	proximity *geo.Proximity
	pool      *WorkerPool
}

func NewRewardService(c domain.AttractionCatalog, s Scorer, p *geo.Proximity, pool *WorkerPool) *RewardService {
	return &RewardService{catalog: c, scorer: s, proximity: p, pool: pool}
}

type candidate struct {
	attraction domain.Attraction
	visit      domain.VisitedLocation
}

// qualifying pairs each attraction with the first visit within buffer miles of it.
// Attraction order follows the catalog; visits are scanned in history order.
func qualifying(attractions []domain.Attraction, history []domain.VisitedLocation, buffer float64) []candidate {
	var out []candidate
	for _, a := range attractions {
		for _, v := range history {
			if geo.IsNear(v.Location, a, buffer) {
				out = append(out, candidate{attraction: a, visit: v})
				break
			}
		}
	}
	return out
}

// CalculateRewards scores every attraction the user qualifies for and adds the results
// to the user's ledger. Rewards scored before a failure are still added; the first
// failure is then returned.
func (s *RewardService) CalculateRewards(ctx context.Context, u *User) (err error) {
	if s.pool.Closed() {
		return domain.ErrPoolClosed
	}
	start := time.Now()
	added := 0
	defer func() { observability.ObserveDispatch(err, added, time.Since(start)) }()

	history := u.VisitedLocations()
	if len(history) == 0 {
		return nil
	}
	attractions, err := s.catalog.ListAttractions(ctx)
	if err != nil {
		return fmt.Errorf("list attractions: %w", err)
	}

	cands := qualifying(attractions, history, s.proximity.Buffer())
	if len(cands) == 0 {
		return nil
	}

	rewards := make([]*domain.Reward, len(cands))
	var g errgroup.Group
	for i, c := range cands {
		i, c := i, c
		g.Go(func() error {
			return s.pool.Do(ctx, func(ctx context.Context) error {
				points, err := s.scorer.Score(ctx, c.attraction, u.ID)
				if err != nil {
					return err
				}
				rewards[i] = &domain.Reward{VisitedLocation: c.visit, Attraction: c.attraction, Points: points}
				return nil
			})
		})
	}
	err = g.Wait()

	for _, r := range rewards {
		if r != nil && u.Rewards().Add(*r) {
			added++
		}
	}

	ev := log.Debug()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("user", u.ID.String()).
		Int("qualifying", len(cands)).
		Int("inserted", added).
		Dur("dur", time.Since(start)).
		Msg("rewards calculated")
	return err
}
