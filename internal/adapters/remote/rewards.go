package remote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// Rewards is the scoring oracle backed by the rewards service.
type Rewards struct{ c *Client }

func NewRewards(c *Client) *Rewards { return &Rewards{c: c} }

func (r *Rewards) PointsFor(ctx context.Context, attractionID, userID uuid.UUID) (int, error) {
	var body struct {
		Points *int `json:"points"`
	}
	path := fmt.Sprintf("/attractions/%s/points?userId=%s", attractionID, url.QueryEscape(userID.String()))
	if err := r.c.get(ctx, "attraction_points", path, &body); err != nil {
		return 0, err
	}
	if body.Points == nil {
		return 0, fmt.Errorf("rewards: response without points")
	}
	return *body.Points, nil
}
