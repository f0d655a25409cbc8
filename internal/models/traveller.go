package models

import "time"

// ZoneLabel is the zone classification carried on a traveller record.
type ZoneLabel string

const (
	ZoneSafe       ZoneLabel = "Safe"
	ZoneRestricted ZoneLabel = "Restricted"
	// ZoneInactive is a zone label. It is unrelated to the time based
	// staleness check in the stats package.
	ZoneInactive ZoneLabel = "Inactive"
)

// Status is the activity status of a traveller, independent of its zone.
type Status string

const (
	StatusActive   Status = "Active"
	StatusAlert    Status = "Alert"
	StatusInactive Status = "Inactive"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Entity is one tracked traveller.
type Entity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Zone      ZoneLabel `json:"zone"`
	Status    Status    `json:"status"`
	Location  Location  `json:"location"`
	LastSeen  time.Time `json:"lastSeen"`
	Alert     string    `json:"alert,omitempty"`
	TripGroup string    `json:"tripGroup,omitempty"`
}

// Refresh triggers recorded on a batch.
const (
	TriggerInitial = "initial"
	TriggerTimer   = "timer"
	TriggerManual  = "manual"
)

// Batch is one complete generated set of travellers. A published batch is
// never modified; a refresh replaces it.
type Batch struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`
	Trigger     string    `json:"trigger"`
	Entities    []Entity  `json:"travellers"`
}

// Len returns the number of travellers, tolerating a nil batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Entities)
}
