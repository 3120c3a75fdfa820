package remote

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tourguide/internal/domain"
)

// GPS reads user positions and the attraction catalog from the GPS service.
type GPS struct{ c *Client }

func NewGPS(c *Client) *GPS { return &GPS{c: c} }

func (g *GPS) CurrentLocation(ctx context.Context, userID uuid.UUID) (domain.VisitedLocation, error) {
	var v domain.VisitedLocation
	if err := g.c.get(ctx, "user_location", fmt.Sprintf("/users/%s/location", userID), &v); err != nil {
		return domain.VisitedLocation{}, err
	}
	if v.UserID == uuid.Nil {
		v.UserID = userID
	}
	if err := v.Location.Validate(); err != nil {
		return domain.VisitedLocation{}, err
	}
	return v, nil
}

// ListAttractions drops entries with invalid coordinates rather than failing the whole catalog.
func (g *GPS) ListAttractions(ctx context.Context) ([]domain.Attraction, error) {
	var raw []domain.Attraction
	if err := g.c.get(ctx, "attractions", "/attractions", &raw); err != nil {
		return nil, err
	}
	out := raw[:0]
	for _, a := range raw {
		if a.Location.Validate() == nil {
			out = append(out, a)
		}
	}
	return out, nil
}
