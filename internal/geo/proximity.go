package geo

import (
	"math"
	"sync/atomic"

	"tourguide/internal/domain"
)

// Distances in miles.
const (
	DefaultProximityBuffer          = 10.0
	DefaultAttractionProximityRange = 200.0
)

// IsNear reports whether loc is within buffer miles of the attraction, boundary included.
func IsNear(loc domain.Location, a domain.Attraction, buffer float64) bool {
	return Distance(loc, a.Location) <= buffer
}

// Proximity holds the reward buffer (mutable at runtime) and the discovery range (fixed).
type Proximity struct {
	buffer        atomic.Uint64 // math.Float64bits
	defaultBuffer float64
	rangeMiles    float64
}

func NewProximity(buffer, rangeMiles float64) *Proximity {
	if buffer <= 0 {
		buffer = DefaultProximityBuffer
	}
	if rangeMiles <= 0 {
		rangeMiles = DefaultAttractionProximityRange
	}
	p := &Proximity{defaultBuffer: buffer, rangeMiles: rangeMiles}
	p.buffer.Store(math.Float64bits(buffer))
	return p
}

func (p *Proximity) Buffer() float64 { return math.Float64frombits(p.buffer.Load()) }

func (p *Proximity) SetBuffer(miles float64) { p.buffer.Store(math.Float64bits(miles)) }

// ResetBuffer restores the buffer the Proximity was built with.
func (p *Proximity) ResetBuffer() { p.SetBuffer(p.defaultBuffer) }

func (p *Proximity) Range() float64 { return p.rangeMiles }

func (p *Proximity) Near(loc domain.Location, a domain.Attraction) bool {
	return IsNear(loc, a, p.Buffer())
}

func (p *Proximity) WithinRange(a domain.Attraction, loc domain.Location) bool {
	return Distance(loc, a.Location) <= p.rangeMiles
}
