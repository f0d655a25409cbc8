package simulation

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"zonewatch/internal/models"
)

const eps = 1e-9

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestGenerateDefaultBatch(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	batch := Generate(cfg, now, testRand())

	if got, want := len(batch), cfg.SafeCount+cfg.RestrictedCount; got != want {
		t.Fatalf("len = %d, want %d", got, want)
	}

	seen := make(map[string]bool, len(batch))
	for i, e := range batch {
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true

		if e.TripGroup != cfg.TripGroup {
			t.Errorf("%s: trip group %q", e.ID, e.TripGroup)
		}
		if e.LastSeen.After(now) {
			t.Errorf("%s: last seen in the future", e.ID)
		}

		if i < cfg.SafeCount {
			if e.Zone != models.ZoneSafe || e.Status != models.StatusActive {
				t.Errorf("%s: safe cohort got zone=%s status=%s", e.ID, e.Zone, e.Status)
			}
			if e.Alert != "" {
				t.Errorf("%s: safe cohort carries alert %q", e.ID, e.Alert)
			}
			if now.Sub(e.LastSeen) > 5*time.Minute {
				t.Errorf("%s: last seen %s ago", e.ID, now.Sub(e.LastSeen))
			}
			if math.Abs(e.Location.Lat-cfg.CenterLat) > safeJitter+eps || math.Abs(e.Location.Lng-cfg.CenterLng) > safeJitter+eps {
				t.Errorf("%s: location %+v outside safe jitter", e.ID, e.Location)
			}
			continue
		}

		if e.Zone != models.ZoneRestricted || e.Status != models.StatusAlert {
			t.Errorf("%s: restricted cohort got zone=%s status=%s", e.ID, e.Zone, e.Status)
		}
		if e.Alert != RestrictedAlert {
			t.Errorf("%s: alert %q", e.ID, e.Alert)
		}
		if now.Sub(e.LastSeen) > time.Minute {
			t.Errorf("%s: last seen %s ago", e.ID, now.Sub(e.LastSeen))
		}
		wantLat := cfg.CenterLat + restrictedOffset
		wantLng := cfg.CenterLng + restrictedOffset
		if math.Abs(e.Location.Lat-wantLat) > restrictedJitter+eps || math.Abs(e.Location.Lng-wantLng) > restrictedJitter+eps {
			t.Errorf("%s: location %+v outside restricted jitter", e.ID, e.Location)
		}
	}
}

func TestGenerateIDs(t *testing.T) {
	batch := Generate(GeneratorConfig{SafeCount: 2, RestrictedCount: 1}, time.Now(), testRand())
	want := []string{"TRV001", "TRV002", "TRV003"}
	for i, e := range batch {
		if e.ID != want[i] {
			t.Errorf("batch[%d].ID = %s, want %s", i, e.ID, want[i])
		}
	}
	if batch[2].Name != "Traveller 3" {
		t.Errorf("name = %q", batch[2].Name)
	}
}

func TestGenerateRestrictedAlertCohort(t *testing.T) {
	batch := Generate(DefaultGeneratorConfig(), time.Now(), testRand())
	for i, e := range batch {
		inCohort := i >= 85 // travellers 86..100
		if (e.Alert != "") != inCohort {
			t.Errorf("%s: alert=%q, in restricted cohort=%v", e.ID, e.Alert, inCohort)
		}
	}
}

func TestGenerateEmptyAndNegative(t *testing.T) {
	cases := []GeneratorConfig{
		{},
		{SafeCount: -3, RestrictedCount: -1},
	}
	for _, cfg := range cases {
		if batch := Generate(cfg, time.Now(), testRand()); len(batch) != 0 {
			t.Errorf("Generate(%+v) len = %d, want 0", cfg, len(batch))
		}
	}
}

func TestNewRandProducesValues(t *testing.T) {
	a, b := NewRand(), NewRand()
	if a.Uint64() == b.Uint64() && a.Uint64() == b.Uint64() {
		t.Error("two independently seeded generators produced identical streams")
	}
}
