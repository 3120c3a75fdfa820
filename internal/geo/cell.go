package geo

import (
	"github.com/mmcloughlin/geohash"

	"tourguide/internal/domain"
)

// CellPrecision gives cells of roughly 5m x 5m.
const CellPrecision = 9

// Cell encodes loc as a geohash of the given precision.
func Cell(loc domain.Location, precision uint) string {
	return geohash.EncodeWithPrecision(loc.Latitude, loc.Longitude, precision)
}

// CellCenter decodes a geohash back to a point inside its cell.
func CellCenter(hash string) domain.Location {
	lat, lon := geohash.Decode(hash)
	return domain.Location{Latitude: lat, Longitude: lon}
}
