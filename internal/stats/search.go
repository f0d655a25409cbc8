package stats

import (
	"strings"

	"golang.org/x/text/cases"

	"zonewatch/internal/models"
)

// Search returns the travellers whose name, id or zone contains term,
// ignoring case. An empty term matches everything.
func Search(entities []models.Entity, term string) []models.Entity {
	term = strings.TrimSpace(term)
	out := make([]models.Entity, 0, len(entities))
	if term == "" {
		return append(out, entities...)
	}

	fold := cases.Fold()
	needle := fold.String(term)
	for _, e := range entities {
		if strings.Contains(fold.String(e.Name), needle) ||
			strings.Contains(fold.String(e.ID), needle) ||
			strings.Contains(fold.String(string(e.Zone)), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Filter keeps the travellers whose zone label and status are in the given
// sets. An empty set does not restrict; labels compare case-insensitively.
func Filter(entities []models.Entity, zones, statuses []string) []models.Entity {
	if len(zones) == 0 && len(statuses) == 0 {
		return entities
	}
	out := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if matchAny(string(e.Zone), zones) && matchAny(string(e.Status), statuses) {
			out = append(out, e)
		}
	}
	return out
}

func matchAny(v string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
