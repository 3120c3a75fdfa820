package domain_test

import (
	"errors"
	"math"
	"testing"

	"tourguide/internal/domain"
)

func TestNewLocation(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
		ok       bool
	}{
		{"origin", 0, 0, true},
		{"poles and antimeridian", 90, -180, true},
		{"south pole", -90, 180, true},
		{"lat too high", 90.0001, 0, false},
		{"lat too low", -91, 0, false},
		{"lon too high", 0, 180.5, false},
		{"lon too low", 0, -181, false},
		{"nan", math.NaN(), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := domain.NewLocation(tc.lat, tc.lon)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				if l.Latitude != tc.lat || l.Longitude != tc.lon {
					t.Fatalf("unexpected location: %+v", l)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidLocation) {
				t.Fatalf("expected ErrInvalidLocation, got %v", err)
			}
		})
	}
}

func TestScoringErrorIs(t *testing.T) {
	cause := errors.New("boom")
	var err error = &domain.ScoringError{Err: cause}
	if !errors.Is(err, domain.ErrScoringFailure) {
		t.Fatalf("expected ErrScoringFailure")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	var se *domain.ScoringError
	if !errors.As(err, &se) {
		t.Fatalf("expected errors.As to match")
	}
}
