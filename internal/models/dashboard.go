package models

import "time"

// DistributionEntry is one bucket of a zone or status breakdown.
type DistributionEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// Summary holds the headline counts.
type Summary struct {
	Total      int `json:"total"`
	Safe       int `json:"safe"`
	Restricted int `json:"restricted"`
	Inactive   int `json:"inactive"` // last seen more than three minutes ago
}

// Cohort names used on map markers.
const (
	CohortSafe       = "safe"
	CohortRestricted = "restricted"
)

// Marker is a schematic map position, in canvas units.
type Marker struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Zone   ZoneLabel `json:"zone"`
	Status Status    `json:"status"`
	Alert  string    `json:"alert,omitempty"`
	Cohort string    `json:"cohort"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
}

// Canvas is the rectangle markers must stay inside. Margin keeps markers off
// the edges.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
}

type DashboardView struct {
	BatchID            string              `json:"batchId"`
	LastUpdated        time.Time           `json:"lastUpdated"`
	Trigger            string              `json:"trigger"`
	Summary            Summary             `json:"summary"`
	ZoneDistribution   []DistributionEntry `json:"zoneDistribution"`
	StatusDistribution []DistributionEntry `json:"statusDistribution"`
	Canvas             Canvas              `json:"canvas"`
	Markers            []Marker            `json:"markers"`
	Zones              []Zone              `json:"zones"`
}

// TravellersResponse is the activity table payload.
type TravellersResponse struct {
	Data        []Entity  `json:"data"`
	Total       int       `json:"total"`
	LastUpdated time.Time `json:"lastUpdated"`
}
