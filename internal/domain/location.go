package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewLocation rejects coordinates outside [-90,90] x [-180,180].
func NewLocation(lat, lon float64) (Location, error) {
	l := Location{Latitude: lat, Longitude: lon}
	if err := l.Validate(); err != nil {
		return Location{}, err
	}
	return l, nil
}

// Validate is used on values decoded by adapters, which bypass NewLocation.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidLocation, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidLocation, l.Longitude)
	}
	return nil
}

type VisitedLocation struct {
	UserID      uuid.UUID `json:"userId"`
	Location    Location  `json:"location"`
	TimeVisited time.Time `json:"timeVisited"`
}

type Attraction struct {
	ID       uuid.UUID `json:"attractionId"`
	Name     string    `json:"attractionName"`
	City     string    `json:"city"`
	State    string    `json:"state"`
	Location Location  `json:"location"`
}
