package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseQueryList handles both repeated and comma-separated query params.
// Example:
//
//	?zone=Safe,Restricted      → ["Safe","Restricted"]
//	?zone=Safe&zone=Restricted → ["Safe","Restricted"]
func ParseQueryList(q map[string][]string, key string) []string {
	values := q[key]
	if len(values) == 0 {
		return nil
	}

	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cleaned = append(cleaned, part)
			}
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}

// ParseCoordinate reads a latitude or longitude param and checks it lies
// within ±limit degrees.
func ParseCoordinate(q map[string][]string, key string, limit float64) (float64, error) {
	values := q[key]
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%s out of range", key)
	}
	return v, nil
}
