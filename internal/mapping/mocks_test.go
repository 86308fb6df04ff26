package mapping

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) ([]Place, error) {
	args := m.Called(ctx, address)
	places, _ := args.Get(0).([]Place)
	return places, args.Error(1)
}

type mockRouter struct {
	mock.Mock
}

func (m *mockRouter) Directions(ctx context.Context, from, to Coordinates, mode Mode) (Route, error) {
	args := m.Called(ctx, from, to, mode)
	route, _ := args.Get(0).(Route)
	return route, args.Error(1)
}
