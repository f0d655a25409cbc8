// Package zones holds the static zone configuration: the built-in trip
// areas, a YAML loader for custom areas and point-in-polygon lookup.
package zones

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"zonewatch/internal/models"
)

// Default returns the two areas of the sample trip, laid out around the
// given centre.
func Default(centerLat, centerLng float64) []models.Zone {
	rect := func(lat0, lng0, lat1, lng1 float64) []models.Coordinate {
		return []models.Coordinate{
			{Lat: centerLat + lat0, Lng: centerLng + lng0},
			{Lat: centerLat + lat1, Lng: centerLng + lng0},
			{Lat: centerLat + lat1, Lng: centerLng + lng1},
			{Lat: centerLat + lat0, Lng: centerLng + lng1},
		}
	}

	return []models.Zone{
		{
			ID:          "safe-1",
			Name:        "Tourist Area",
			Type:        models.ZoneTypeSafe,
			Coordinates: rect(-0.002, -0.003, 0.002, 0.002),
			Color:       "#22c55e",
			Position:    0,
		},
		{
			ID:          "restricted-1",
			Name:        "Off-Limits Area",
			Type:        models.ZoneTypeRestricted,
			Coordinates: rect(0.003, 0.003, 0.007, 0.007),
			Color:       "#ef4444",
			Position:    1,
		},
	}
}

type file struct {
	Zones []models.Zone `yaml:"zones"`
}

// LoadFile reads a YAML zone list:
//
//	zones:
//	  - id: safe-1
//	    name: Tourist Area
//	    type: safe
//	    color: "#22c55e"
//	    coordinates:
//	      - {lat: 40.7108, lng: -74.0090}
//	      - ...
func LoadFile(path string) ([]models.Zone, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zones file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML zone list. Position follows file order.
func Parse(raw []byte) ([]models.Zone, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode zones: %w", err)
	}
	if len(f.Zones) == 0 {
		return nil, errors.New("zones file defines no zones")
	}

	seen := make(map[string]bool, len(f.Zones))
	for i := range f.Zones {
		z := &f.Zones[i]
		z.Position = i
		if err := validate(*z); err != nil {
			return nil, fmt.Errorf("zone %d: %w", i, err)
		}
		if seen[z.ID] {
			return nil, fmt.Errorf("zone %d: duplicate id %q", i, z.ID)
		}
		seen[z.ID] = true
	}
	return f.Zones, nil
}

func validate(z models.Zone) error {
	if z.ID == "" {
		return errors.New("id is required")
	}
	if z.Name == "" {
		return fmt.Errorf("%s: name is required", z.ID)
	}
	if z.Type != models.ZoneTypeSafe && z.Type != models.ZoneTypeRestricted {
		return fmt.Errorf("%s: type must be safe or restricted, got %q", z.ID, z.Type)
	}
	if len(z.Coordinates) < 3 {
		return fmt.Errorf("%s: polygon needs at least 3 vertices, got %d", z.ID, len(z.Coordinates))
	}
	return nil
}

// Contains reports whether (lat, lng) lies inside the zone polygon, using
// even-odd ray casting. Points exactly on an edge may fall either way.
func Contains(z models.Zone, lat, lng float64) bool {
	pts := z.Coordinates
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Lat > lat) != (pj.Lat > lat) &&
			lng < (pj.Lng-pi.Lng)*(lat-pi.Lat)/(pj.Lat-pi.Lat)+pi.Lng {
			inside = !inside
		}
	}
	return inside
}

// Locate returns the first zone, in configuration order, containing the point.
func Locate(list []models.Zone, lat, lng float64) (models.Zone, bool) {
	for _, z := range list {
		if Contains(z, lat, lng) {
			return z, true
		}
	}
	return models.Zone{}, false
}
