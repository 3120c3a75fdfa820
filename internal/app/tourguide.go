package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tourguide/internal/domain"
)

// TourGuideService ties location tracking, rewards and nearby queries to registered users.
type TourGuideService struct {
	users   *UserRegistry
	gps     domain.LocationOracle
	catalog domain.AttractionCatalog
	rewards *RewardService
	nearby  *NearbyService
	topK    int
}

func NewTourGuideService(users *UserRegistry, gps domain.LocationOracle, catalog domain.AttractionCatalog,
	rewards *RewardService, nearby *NearbyService, topK int) *TourGuideService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &TourGuideService{users: users, gps: gps, catalog: catalog, rewards: rewards, nearby: nearby, topK: topK}
}

func (s *TourGuideService) Users() *UserRegistry { return s.users }

// TrackUserLocation asks the location oracle where the user is, appends it to the
// history and recalculates rewards. The location is kept even if rewards fail.
func (s *TourGuideService) TrackUserLocation(ctx context.Context, u *User) (domain.VisitedLocation, error) {
	v, err := s.gps.CurrentLocation(ctx, u.ID)
	if err != nil {
		return domain.VisitedLocation{}, fmt.Errorf("current location for %s: %w", u.ID, err)
	}
	if err := v.Location.Validate(); err != nil {
		return domain.VisitedLocation{}, err
	}
	u.AddVisitedLocation(v)
	if err := s.rewards.CalculateRewards(ctx, u); err != nil {
		return v, fmt.Errorf("calculate rewards: %w", err)
	}
	return v, nil
}

// UserLocation returns the last visited location, tracking the user if there is none yet.
func (s *TourGuideService) UserLocation(ctx context.Context, u *User) (domain.VisitedLocation, error) {
	if v, ok := u.LastVisitedLocation(); ok {
		return v, nil
	}
	return s.TrackUserLocation(ctx, u)
}

func (s *TourGuideService) UserRewards(u *User) []domain.Reward { return u.Rewards().List() }

func (s *TourGuideService) RewardPointsTotal(u *User) int { return u.Rewards().TotalPoints() }

// NearbyAttractions returns the closest attractions to the named user's location.
func (s *TourGuideService) NearbyAttractions(ctx context.Context, userName string) ([]domain.NearbyAttraction, error) {
	u, err := s.users.Get(userName)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", userName, err)
	}
	v, err := s.UserLocation(ctx, u)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.ListAttractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attractions: %w", err)
	}
	return s.nearby.Nearest(ctx, u.ID, v.Location, catalog, s.topK)
}

// AttractionsInRange lists attractions within the proximity range of loc.
func (s *TourGuideService) AttractionsInRange(ctx context.Context, loc domain.Location) ([]domain.Attraction, error) {
	catalog, err := s.catalog.ListAttractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attractions: %w", err)
	}
	return s.nearby.InRange(loc, catalog), nil
}

// AllCurrentLocations maps each user id to its most recent stored location.
// Users without history are tracked first; failures are logged and skipped.
func (s *TourGuideService) AllCurrentLocations(ctx context.Context) map[string]domain.Location {
	out := make(map[string]domain.Location)
	for _, u := range s.users.All() {
		v, err := s.UserLocation(ctx, u)
		if err != nil {
			log.Warn().Err(err).Str("user", u.Name).Msg("current location unavailable")
			continue
		}
		out[u.ID.String()] = v.Location
	}
	return out
}
