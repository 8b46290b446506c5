package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// coordinatesRe matches a coordinate pair embedded in an address,
// e.g. "(-12.0828,-77.0513)".
var coordinatesRe = regexp.MustCompile(`\((-?\d+\.\d+),(-?\d+\.\d+)\)`)

// ExtractCoordinates pulls a decimal (lat,lon) pair out of free-text location
// strings. Pairs outside the valid WGS-84 ranges are rejected, not clamped.
func ExtractCoordinates(text string) (*Coordinates, bool) {
	m := coordinatesRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	lat, errLat := strconv.ParseFloat(m[1], 64)
	lon, errLon := strconv.ParseFloat(m[2], 64)
	if errLat != nil || errLon != nil {
		return nil, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, false
	}

	return &Coordinates{Latitude: lat, Longitude: lon}, true
}

// ExtractDistrict derives the district from the segment after the final dash
// of a dispatch address. Addresses without a dash default to Lima.
func ExtractDistrict(address string) string {
	parts := strings.Split(address, "-")
	if len(parts) > 1 {
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return "Lima"
}
