package zones

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zonewatch/internal/models"
)

const (
	centerLat = 40.7128
	centerLng = -74.0060
)

func TestDefaultZones(t *testing.T) {
	list := Default(centerLat, centerLng)
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != "safe-1" || list[0].Type != models.ZoneTypeSafe {
		t.Errorf("first zone = %+v", list[0])
	}
	if list[1].ID != "restricted-1" || list[1].Type != models.ZoneTypeRestricted {
		t.Errorf("second zone = %+v", list[1])
	}
	for _, z := range list {
		if err := validate(z); err != nil {
			t.Errorf("default zone invalid: %v", err)
		}
	}
}

func TestLocate(t *testing.T) {
	list := Default(centerLat, centerLng)

	cases := []struct {
		name     string
		lat, lng float64
		wantID   string
		wantOK   bool
	}{
		{"trip centre", centerLat, centerLng, "safe-1", true},
		{"restricted centre", centerLat + 0.005, centerLng + 0.005, "restricted-1", true},
		{"far away", centerLat + 1, centerLng + 1, "", false},
		{"between the areas", centerLat + 0.0025, centerLng + 0.0025, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			z, ok := Locate(list, tc.lat, tc.lng)
			if ok != tc.wantOK || z.ID != tc.wantID {
				t.Errorf("Locate = (%q, %v), want (%q, %v)", z.ID, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}

func TestContainsTriangle(t *testing.T) {
	tri := models.Zone{Coordinates: []models.Coordinate{{Lat: 0, Lng: 0}, {Lat: 10, Lng: 0}, {Lat: 0, Lng: 10}}}
	if !Contains(tri, 2, 2) {
		t.Error("(2,2) should be inside")
	}
	if Contains(tri, 8, 8) {
		t.Error("(8,8) should be outside")
	}
	if Contains(models.Zone{}, 0, 0) {
		t.Error("empty polygon contains nothing")
	}
}

func TestLoadFile(t *testing.T) {
	body := `zones:
  - id: plaza
    name: Plaza
    type: safe
    color: "#22c55e"
    coordinates:
      - {lat: 0, lng: 0}
      - {lat: 0, lng: 1}
      - {lat: 1, lng: 1}
  - id: docks
    name: Docks
    type: restricted
    coordinates:
      - {lat: 2, lng: 2}
      - {lat: 2, lng: 3}
      - {lat: 3, lng: 3}
      - {lat: 3, lng: 2}
`
	path := filepath.Join(t.TempDir(), "zones.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	list, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d", len(list))
	}
	if list[1].ID != "docks" || list[1].Position != 1 || len(list[1].Coordinates) != 4 {
		t.Errorf("second zone = %+v", list[1])
	}
	if list[0].Color != "#22c55e" {
		t.Errorf("color = %q", list[0].Color)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"empty": {"zones: []", "no zones"},
		"bad yaml": {"zones: [", "decode"},
		"bad type": {`zones:
  - {id: a, name: A, type: unsafe, coordinates: [{lat: 0, lng: 0}, {lat: 0, lng: 1}, {lat: 1, lng: 1}]}`, "type must be"},
		"too few vertices": {`zones:
  - {id: a, name: A, type: safe, coordinates: [{lat: 0, lng: 0}, {lat: 0, lng: 1}]}`, "at least 3"},
		"duplicate id": {`zones:
  - {id: a, name: A, type: safe, coordinates: [{lat: 0, lng: 0}, {lat: 0, lng: 1}, {lat: 1, lng: 1}]}
  - {id: a, name: B, type: safe, coordinates: [{lat: 0, lng: 0}, {lat: 0, lng: 1}, {lat: 1, lng: 1}]}`, "duplicate"},
		"missing name": {`zones:
  - {id: a, type: safe, coordinates: [{lat: 0, lng: 0}, {lat: 0, lng: 1}, {lat: 1, lng: 1}]}`, "name is required"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Parse error = %v, want containing %q", err, tc.want)
			}
		})
	}
}
