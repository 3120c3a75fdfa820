package geo

import (
	"math"

	"tourguide/internal/domain"
)

const StatuteMilesPerNauticalMile = 1.15077945

// Distance returns the great-circle distance in statute miles (spherical law of cosines).
func Distance(a, b domain.Location) float64 {
	if a == b {
		return 0
	}
	lat1 := radians(a.Latitude)
	lon1 := radians(a.Longitude)
	lat2 := radians(b.Latitude)
	lon2 := radians(b.Longitude)

	cos := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon1-lon2)
	// rounding can push identical points just past 1, where acos is NaN
	angle := math.Acos(math.Max(-1, math.Min(1, cos)))

	nauticalMiles := 60 * degrees(angle)
	return StatuteMilesPerNauticalMile * nauticalMiles
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
