package stats

import (
	"math/rand/v2"
	"testing"
	"time"

	"zonewatch/internal/models"
	"zonewatch/internal/simulation"
)

func TestLayoutSelection(t *testing.T) {
	batch := defaultBatch(t)
	markers := Layout(batch, DefaultCanvas, rand.New(rand.NewPCG(3, 4)))

	var safe, restricted int
	for i, m := range markers {
		switch m.Cohort {
		case models.CohortSafe:
			safe++
			if want := batch[i].ID; m.ID != want {
				t.Errorf("safe marker %d = %s, want %s (batch order)", i, m.ID, want)
			}
		case models.CohortRestricted:
			restricted++
			if m.Alert == "" {
				t.Errorf("restricted marker %s has no alert", m.ID)
			}
		default:
			t.Errorf("unexpected cohort %q", m.Cohort)
		}
	}
	if safe != SafeMarkerLimit {
		t.Errorf("safe markers = %d, want %d", safe, SafeMarkerLimit)
	}
	if restricted != 15 {
		t.Errorf("restricted markers = %d, want 15", restricted)
	}
}

func TestLayoutStaysInsideCanvas(t *testing.T) {
	canvases := []models.Canvas{
		DefaultCanvas,
		{Width: 600, Height: 500, Margin: 20},
		{Width: 50, Height: 40, Margin: 0},
		{Width: 10, Height: 10, Margin: 30}, // margin larger than half the canvas
	}
	batch := simulation.Generate(simulation.GeneratorConfig{SafeCount: 40, RestrictedCount: 40}, time.Now(), rand.New(rand.NewPCG(5, 6)))
	rng := rand.New(rand.NewPCG(8, 9))

	for _, c := range canvases {
		margin := min(c.Margin, c.Width/2, c.Height/2)
		for run := 0; run < 50; run++ {
			for _, m := range Layout(batch, c, rng) {
				if m.X < margin || m.X > c.Width-margin+1e-9 || m.Y < margin || m.Y > c.Height-margin+1e-9 {
					t.Fatalf("canvas %+v: marker %s at (%.2f, %.2f) out of bounds", c, m.ID, m.X, m.Y)
				}
			}
		}
	}
}

func TestLayoutJitterIsFreshPerCall(t *testing.T) {
	batch := defaultBatch(t)
	rng := rand.New(rand.NewPCG(11, 12))

	first := Layout(batch, DefaultCanvas, rng)
	second := Layout(batch, DefaultCanvas, rng)
	if len(first) != len(second) {
		t.Fatalf("marker counts differ: %d vs %d", len(first), len(second))
	}

	moved := 0
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("marker order changed at %d", i)
		}
		if first[i].X != second[i].X || first[i].Y != second[i].Y {
			moved++
		}
	}
	if moved == 0 {
		t.Error("no marker moved between two layouts of the same batch")
	}
}

func TestLayoutZeroCanvasFallsBack(t *testing.T) {
	batch := defaultBatch(t)
	for _, m := range Layout(batch, models.Canvas{}, rand.New(rand.NewPCG(1, 2))) {
		if m.X < DefaultCanvas.Margin || m.X > DefaultCanvas.Width-DefaultCanvas.Margin {
			t.Fatalf("marker %s x=%.2f outside default canvas", m.ID, m.X)
		}
	}
}

func TestFit(t *testing.T) {
	cases := []struct {
		v, size, margin, want float64
	}{
		{50, 100, 2, 50},
		{1, 100, 2, 2},
		{99.5, 100, 2, 98},
		{130, 100, 2, 30},
		{-10, 100, 2, 90},
		{100, 100, 0, 0},
	}
	for _, tc := range cases {
		if got := fit(tc.v, tc.size, tc.margin); got != tc.want {
			t.Errorf("fit(%v, %v, %v) = %v, want %v", tc.v, tc.size, tc.margin, got, tc.want)
		}
	}
}
