package stats

import (
	"math"
	"math/rand/v2"

	"zonewatch/internal/models"
)

// SafeMarkerLimit caps how many safe travellers are drawn on the map.
const SafeMarkerLimit = 20

// DefaultCanvas is a percentage canvas: positions are CSS left/top percents.
var DefaultCanvas = models.Canvas{Width: 100, Height: 100, Margin: 2}

type grid struct {
	originX, originY float64
	pitchX, pitchY   float64
	columns          int
	jitterX, jitterY float64
}

var (
	safeGrid       = grid{originX: 12, originY: 18, pitchX: 30, pitchY: 25, columns: 8, jitterX: 15, jitterY: 15}
	restrictedGrid = grid{originX: 68, originY: 30, pitchX: 15, pitchY: 20, columns: 4, jitterX: 8, jitterY: 10}
)

func (g grid) place(index int, rng *rand.Rand) (float64, float64) {
	col := index % g.columns
	row := index / g.columns
	x := g.originX + float64(col)*g.pitchX + rng.Float64()*g.jitterX
	y := g.originY + float64(row)*g.pitchY + rng.Float64()*g.jitterY
	return x, y
}

// Layout places the first SafeMarkerLimit safe travellers and every
// restricted traveller on the schematic map. Jitter is drawn from rng on every
// call, so repeated calls for one batch give different positions. Positions
// are wrapped and then clamped into the canvas.
func Layout(entities []models.Entity, canvas models.Canvas, rng *rand.Rand) []models.Marker {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = DefaultCanvas
	}

	markers := make([]models.Marker, 0, SafeMarkerLimit)
	safeIdx, restrictedIdx := 0, 0

	for _, e := range entities {
		var (
			x, y   float64
			cohort string
		)
		switch {
		case e.Zone == models.ZoneSafe && safeIdx < SafeMarkerLimit:
			x, y = safeGrid.place(safeIdx, rng)
			cohort = models.CohortSafe
			safeIdx++
		case e.Zone == models.ZoneRestricted:
			x, y = restrictedGrid.place(restrictedIdx, rng)
			cohort = models.CohortRestricted
			restrictedIdx++
		default:
			continue
		}

		markers = append(markers, models.Marker{
			ID:     e.ID,
			Name:   e.Name,
			Zone:   e.Zone,
			Status: e.Status,
			Alert:  e.Alert,
			Cohort: cohort,
			X:      fit(x, canvas.Width, canvas.Margin),
			Y:      fit(y, canvas.Height, canvas.Margin),
		})
	}
	return markers
}

// fit wraps v into [0, size) and clamps it to [margin, size-margin].
func fit(v, size, margin float64) float64 {
	margin = math.Min(math.Max(margin, 0), size/2)

	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return math.Min(math.Max(v, margin), size-margin)
}
