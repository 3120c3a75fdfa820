package domain

type Reward struct {
	VisitedLocation VisitedLocation `json:"visitedLocation"`
	Attraction      Attraction      `json:"attraction"`
	Points          int             `json:"rewardPoints"`
}

// NearbyAttraction is built per query and never stored.
type NearbyAttraction struct {
	AttractionName     string   `json:"attractionName"`
	AttractionLocation Location `json:"attractionLocation"`
	UserLocation       Location `json:"userLocation"`
	DistanceMiles      float64  `json:"distanceInMiles"`
	RewardPoints       int      `json:"rewardPoints"`

	Attraction Attraction `json:"-"`
}
