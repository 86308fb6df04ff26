package mapping

import (
	"math"
	"sort"

	"creerlio-backend/internal/businesses"
)

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between a and b.
func haversineKm(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// NearbyBusiness is a business with its distance from the search centre.
type NearbyBusiness struct {
	businesses.Business
	DistanceKm float64 `json:"distance_km"`
}

// withinRadius keeps businesses no further than radiusKm from center, nearest first.
func withinRadius(center Coordinates, radiusKm float64, candidates []businesses.Business) []NearbyBusiness {
	out := []NearbyBusiness{}
	for _, b := range candidates {
		if !b.HasCoordinates() {
			continue
		}
		d := haversineKm(center, Coordinates{Latitude: *b.Latitude, Longitude: *b.Longitude})
		if d <= radiusKm {
			out = append(out, NearbyBusiness{Business: b, DistanceKm: math.Round(d*1000) / 1000})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}
