package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tourguide/internal/adapters/observability"
	"tourguide/internal/domain"
)

// Scorer computes the points a user earns for an attraction.
type Scorer interface {
	Score(ctx context.Context, a domain.Attraction, userID uuid.UUID) (int, error)
}

// RewardScorer is a stateless wrapper around the scoring oracle. It never retries.
type RewardScorer struct {
	oracle domain.ScoringOracle
}

func NewRewardScorer(o domain.ScoringOracle) *RewardScorer {
	return &RewardScorer{oracle: o}
}

// Score returns a *domain.ScoringError when the oracle fails or returns negative points.
func (s *RewardScorer) Score(ctx context.Context, a domain.Attraction, userID uuid.UUID) (int, error) {
	start := time.Now()
	points, err := s.oracle.PointsFor(ctx, a.ID, userID)
	if err == nil && points < 0 {
		err = fmt.Errorf("negative points %d", points)
	}
	observability.ObserveScoring(err, time.Since(start))
	if err != nil {
		log.Debug().Err(err).Str("attraction", a.Name).Str("user", userID.String()).Msg("scoring failed")
		return 0, &domain.ScoringError{AttractionID: a.ID, UserID: userID, Err: err}
	}
	return points, nil
}

// CachedScorer memoizes points per (attraction, user). Points are assumed stable for a pair.
type CachedScorer struct {
	next  Scorer
	cache domain.Cache
	ttl   time.Duration
}

func NewCachedScorer(next Scorer, c domain.Cache, ttl time.Duration) *CachedScorer {
	return &CachedScorer{next: next, cache: c, ttl: ttl}
}

func (s *CachedScorer) Score(ctx context.Context, a domain.Attraction, userID uuid.UUID) (int, error) {
	key := fmt.Sprintf("points:%s:%s", a.ID, userID)
	var points int
	if ok, _ := s.cache.Get(ctx, key, &points); ok {
		return points, nil
	}
	points, err := s.next.Score(ctx, a, userID)
	if err != nil {
		var se *domain.ScoringError
		if !errors.As(err, &se) {
			err = &domain.ScoringError{AttractionID: a.ID, UserID: userID, Err: err}
		}
		return 0, err
	}
	_ = s.cache.Set(ctx, key, points, s.ttl)
	return points, nil
}
