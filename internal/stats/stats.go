// Package stats derives the dashboard views from a traveller batch.
//
// Every function here is total: an empty or nil batch yields zero counts and
// empty lists. Time dependent results take "now" explicitly so the same batch
// can age between calls.
package stats

import (
	"time"

	"zonewatch/internal/models"
)

// StaleAfter is how long a traveller may go unseen before counting as
// inactive.
const StaleAfter = 3 * time.Minute

// Chart colours.
const (
	ColorSafe       = "#22c55e"
	ColorRestricted = "#ef4444"
	ColorInactive   = "#eab308"
)

// InactiveLabel names the time based bucket of the zone distribution.
const InactiveLabel = "Inactive"

// IsStale reports whether e was last seen more than StaleAfter before now.
// This is not the same thing as models.ZoneInactive.
func IsStale(e models.Entity, now time.Time) bool {
	return now.Sub(e.LastSeen) > StaleAfter
}

// ZoneDistribution counts travellers per zone in the fixed order Safe,
// Restricted, Inactive. The Inactive bucket counts stale travellers, not the
// Inactive zone label. Empty buckets are dropped.
func ZoneDistribution(entities []models.Entity, now time.Time) []models.DistributionEntry {
	var safe, restricted, stale int
	for _, e := range entities {
		switch e.Zone {
		case models.ZoneSafe:
			safe++
		case models.ZoneRestricted:
			restricted++
		}
		if IsStale(e, now) {
			stale++
		}
	}

	return nonEmpty([]models.DistributionEntry{
		{Label: string(models.ZoneSafe), Count: safe, Color: ColorSafe},
		{Label: string(models.ZoneRestricted), Count: restricted, Color: ColorRestricted},
		{Label: InactiveLabel, Count: stale, Color: ColorInactive},
	})
}

// StatusDistribution counts travellers per status in the fixed order Active,
// Alert, Inactive. Empty buckets are dropped.
func StatusDistribution(entities []models.Entity) []models.DistributionEntry {
	counts := make(map[models.Status]int, 3)
	for _, e := range entities {
		counts[e.Status]++
	}

	return nonEmpty([]models.DistributionEntry{
		{Label: string(models.StatusActive), Count: counts[models.StatusActive], Color: ColorSafe},
		{Label: string(models.StatusAlert), Count: counts[models.StatusAlert], Color: ColorRestricted},
		{Label: string(models.StatusInactive), Count: counts[models.StatusInactive], Color: ColorInactive},
	})
}

// Summarize computes the headline counts from scratch.
func Summarize(entities []models.Entity, now time.Time) models.Summary {
	s := models.Summary{Total: len(entities)}
	for _, e := range entities {
		switch e.Zone {
		case models.ZoneSafe:
			s.Safe++
		case models.ZoneRestricted:
			s.Restricted++
		}
		if IsStale(e, now) {
			s.Inactive++
		}
	}
	return s
}

func nonEmpty(entries []models.DistributionEntry) []models.DistributionEntry {
	out := make([]models.DistributionEntry, 0, len(entries))
	for _, e := range entries {
		if e.Count > 0 {
			out = append(out, e)
		}
	}
	return out
}
