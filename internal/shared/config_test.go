package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	c := Load()
	if c.ProximityBuffer != 10 || c.AttractionRange != 200 {
		t.Fatalf("proximity defaults: %v %v", c.ProximityBuffer, c.AttractionRange)
	}
	if c.NearbyTopK != 5 || c.ScoringWorkers != 64 || c.TrackWorkers != 16 {
		t.Fatalf("worker defaults: %+v", c)
	}
	if c.TrackInterval != 5*time.Minute || c.ShutdownGrace != time.Minute {
		t.Fatalf("durations: %v %v", c.TrackInterval, c.ShutdownGrace)
	}
	if c.CatalogSource != "gps" {
		t.Fatalf("catalog source: %q", c.CatalogSource)
	}
}

func TestLoad_Overrides(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	t.Setenv("APP_ENV", "test")
	t.Setenv("PROXIMITY_BUFFER_MILES", "2.5")
	t.Setenv("SCORING_WORKERS", "not-a-number")
	t.Setenv("CATALOG_SOURCE", "MySQL")
	t.Setenv("TRACK_USER_IDS", a.String()+", bogus ,"+b.String()+",")

	c := Load()
	if c.ProximityBuffer != 2.5 {
		t.Fatalf("buffer: %v", c.ProximityBuffer)
	}
	if c.ScoringWorkers != 64 {
		t.Fatalf("bad int should fall back to default, got %d", c.ScoringWorkers)
	}
	if c.CatalogSource != "mysql" {
		t.Fatalf("catalog source: %q", c.CatalogSource)
	}
	if len(c.TrackUserIDs) != 2 || c.TrackUserIDs[0] != a || c.TrackUserIDs[1] != b {
		t.Fatalf("user ids: %v", c.TrackUserIDs)
	}
}

func TestLoad_UnknownCatalogSource(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("CATALOG_SOURCE", "s3")
	if c := Load(); c.CatalogSource != "gps" {
		t.Fatalf("catalog source: %q", c.CatalogSource)
	}
}
