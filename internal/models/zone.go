package models

import (
	"github.com/uptrace/bun"
)

type ZoneType string

const (
	ZoneTypeSafe       ZoneType = "safe"
	ZoneTypeRestricted ZoneType = "restricted"
)

type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Zone is a static schematic area. Coordinates is an ordered polygon and is
// stored as a JSON column.
type Zone struct {
	bun.BaseModel `bun:"table:zones,alias:z"`

	ID          string       `bun:"id,pk" json:"id" yaml:"id"`
	Name        string       `bun:"name,notnull" json:"name" yaml:"name"`
	Type        ZoneType     `bun:"type,notnull" json:"type" yaml:"type"`
	Coordinates []Coordinate `bun:"coordinates" json:"coordinates" yaml:"coordinates"`
	Color       string       `bun:"color" json:"color" yaml:"color"`
	Position    int          `bun:"position" json:"-" yaml:"-"`
}

// ZonesResponse represents the API response
type ZonesResponse struct {
	Data  []Zone `json:"data"`
	Count int    `json:"count"`
}
