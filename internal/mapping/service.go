package mapping

import (
	"context"
	"fmt"
	"strings"

	"creerlio-backend/internal/businesses"
)

// Geocoder resolves addresses to places.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]Place, error)
}

// Router computes routes between coordinates.
type Router interface {
	Directions(ctx context.Context, from, to Coordinates, mode Mode) (Route, error)
}

// BusinessSource lists businesses that have coordinates.
type BusinessSource interface {
	ListWithCoordinates(ctx context.Context) ([]businesses.Business, error)
}

const (
	DefaultRadiusKm = 5.0
	maxRadiusKm     = 500.0
)

// Service contains mapping logic.
type Service struct {
	Geocoder   Geocoder
	Router     Router
	Businesses BusinessSource
}

// Geocode returns candidate places for address, best match first.
func (s *Service) Geocode(ctx context.Context, address string) ([]Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	places, err := s.Geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoResults, address)
	}
	return places, nil
}

// Route resolves origin and destination, which may each be an address or a
// "lat,lng" pair, and returns the route between them.
func (s *Service) Route(ctx context.Context, origin, destination, mode string) (Route, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Route{}, err
	}
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return Route{}, fmt.Errorf("%w: origin and destination are required", ErrInvalidInput)
	}
	from, err := s.resolve(ctx, origin)
	if err != nil {
		return Route{}, fmt.Errorf("origin: %w", err)
	}
	to, err := s.resolve(ctx, destination)
	if err != nil {
		return Route{}, fmt.Errorf("destination: %w", err)
	}
	return s.Router.Directions(ctx, from, to, m)
}

func (s *Service) resolve(ctx context.Context, location string) (Coordinates, error) {
	if c, ok := ParseCoordinates(location); ok {
		return c, nil
	}
	places, err := s.Geocode(ctx, location)
	if err != nil {
		return Coordinates{}, err
	}
	return places[0].Coordinates, nil
}

// Nearby lists businesses within radiusKm of center, nearest first.
func (s *Service) Nearby(ctx context.Context, center Coordinates, radiusKm float64) ([]NearbyBusiness, error) {
	if !center.valid() {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if radiusKm <= 0 || radiusKm > maxRadiusKm {
		return nil, fmt.Errorf("%w: radius must be between 0 and %.0f km", ErrInvalidInput, maxRadiusKm)
	}
	candidates, err := s.Businesses.ListWithCoordinates(ctx)
	if err != nil {
		return nil, err
	}
	return withinRadius(center, radiusKm, candidates), nil
}
