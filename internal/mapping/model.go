package mapping

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// ParseCoordinates reads a "lat,lng" pair. ok is false when s is not one.
func ParseCoordinates(s string) (Coordinates, bool) {
	lat, lng, found := strings.Cut(s, ",")
	if !found {
		return Coordinates{}, false
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coordinates{}, false
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return Coordinates{}, false
	}
	c := Coordinates{Latitude: la, Longitude: ln}
	return c, c.valid()
}

// Place is one geocoding match.
type Place struct {
	Name        string      `json:"place_name"`
	Coordinates Coordinates `json:"coordinates"`
	Relevance   float64     `json:"relevance"`
}

// Mode is a Mapbox routing profile.
type Mode string

const (
	ModeDriving        Mode = "driving"
	ModeWalking        Mode = "walking"
	ModeCycling        Mode = "cycling"
	ModeDrivingTraffic Mode = "driving-traffic"
)

// ParseMode validates a routing mode. Empty selects driving.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeDriving, nil
	case ModeDriving, ModeWalking, ModeCycling, ModeDrivingTraffic:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, s)
	}
}

// Route is the primary route between two points.
type Route struct {
	Origin          Coordinates     `json:"origin"`
	Destination     Coordinates     `json:"destination"`
	Mode            Mode            `json:"mode"`
	DistanceMeters  float64         `json:"distance_m"`
	DurationSeconds float64         `json:"duration_s"`
	Geometry        json.RawMessage `json:"geometry"`
	// BBox is [minLng, minLat, maxLng, maxLat] of the geometry.
	BBox [4]float64 `json:"bbox"`
	// Points is the number of coordinates in the geometry.
	Points int `json:"points"`
}
