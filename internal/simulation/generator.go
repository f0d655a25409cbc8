// Package simulation generates synthetic traveller batches.
//
// A batch has two cohorts: travellers inside the safe area around the trip
// centre, followed by travellers that wandered into the restricted area and
// carry an alert.
package simulation

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"zonewatch/internal/models"
)

const (
	// RestrictedAlert is the alert text carried by the restricted cohort.
	RestrictedAlert = "Entered restricted zone"

	safeJitter       = 0.005  // degrees, each axis
	restrictedOffset = 0.005  // degrees from the centre, each axis
	restrictedJitter = 0.0015 // degrees, each axis

	safeMaxAge       = 5 * time.Minute
	restrictedMaxAge = time.Minute
)

type GeneratorConfig struct {
	SafeCount       int
	RestrictedCount int
	CenterLat       float64
	CenterLng       float64
	TripGroup       string
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		SafeCount:       85,
		RestrictedCount: 15,
		CenterLat:       40.7128,
		CenterLng:       -74.0060,
		TripGroup:       "Europe Explorer Tour 2024",
	}
}

// Generate builds a batch of SafeCount + RestrictedCount travellers. IDs are
// numbered across both cohorts so they are unique within the batch. Negative
// counts are treated as zero.
func Generate(cfg GeneratorConfig, now time.Time, rng *rand.Rand) []models.Entity {
	safe := max(cfg.SafeCount, 0)
	restricted := max(cfg.RestrictedCount, 0)

	entities := make([]models.Entity, 0, safe+restricted)
	n := 0

	for range safe {
		n++
		entities = append(entities, models.Entity{
			ID:        travellerID(n),
			Name:      fmt.Sprintf("Traveller %d", n),
			Zone:      models.ZoneSafe,
			Status:    models.StatusActive,
			TripGroup: cfg.TripGroup,
			Location: models.Location{
				Lat: cfg.CenterLat + jitter(rng, safeJitter),
				Lng: cfg.CenterLng + jitter(rng, safeJitter),
			},
			LastSeen: now.Add(-age(rng, safeMaxAge)),
		})
	}

	for range restricted {
		n++
		entities = append(entities, models.Entity{
			ID:        travellerID(n),
			Name:      fmt.Sprintf("Traveller %d", n),
			Zone:      models.ZoneRestricted,
			Status:    models.StatusAlert,
			TripGroup: cfg.TripGroup,
			Location: models.Location{
				Lat: cfg.CenterLat + restrictedOffset + jitter(rng, restrictedJitter),
				Lng: cfg.CenterLng + restrictedOffset + jitter(rng, restrictedJitter),
			},
			LastSeen: now.Add(-age(rng, restrictedMaxAge)),
			Alert:    RestrictedAlert,
		})
	}

	return entities
}

// travellerID pads to three digits; larger batches simply grow wider.
func travellerID(n int) string {
	return fmt.Sprintf("TRV%03d", n)
}

// jitter draws uniformly from [-radius, radius).
func jitter(rng *rand.Rand, radius float64) float64 {
	return (rng.Float64() - 0.5) * 2 * radius
}

// age draws uniformly from [0, maxAge).
func age(rng *rand.Rand, maxAge time.Duration) time.Duration {
	return time.Duration(rng.Float64() * float64(maxAge))
}

// NewRand returns a PRNG seeded from crypto/rand, falling back to the clock.
func NewRand() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, now>>1))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}
