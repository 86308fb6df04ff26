package mapping

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creerlio-backend/internal/businesses"
)

type fixture struct {
	router   *gin.Engine
	geocoder *mockGeocoder
	routes   *mockRouter
	repo     *businesses.MemoryRepo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := fixture{geocoder: &mockGeocoder{}, routes: &mockRouter{}, repo: businesses.NewMemoryRepo()}
	svc := &Service{Geocoder: f.geocoder, Router: f.routes, Businesses: f.repo}
	f.router = gin.New()
	NewHandler(svc).RegisterRoutes(f.router.Group("/api/v1"))
	return f
}

func (f fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

func TestGeocodeEndpoint(t *testing.T) {
	f := newFixture(t)
	f.geocoder.On("Geocode", mock.Anything, "Sydney").Return(sydney, nil).Once()
	f.geocoder.On("Geocode", mock.Anything, "Atlantis").Return([]Place{}, nil).Once()

	resp := f.do(t, http.MethodPost, "/api/v1/mapping/geocode", map[string]string{"address": "Sydney"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			PlaceName string  `json:"place_name"`
			Latitude  float64 `json:"latitude"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, "Sydney NSW", out.Data.PlaceName)
	assert.InDelta(t, -33.8688, out.Data.Latitude, 1e-9)

	resp = f.do(t, http.MethodPost, "/api/v1/mapping/geocode", map[string]string{"address": "Atlantis"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = f.do(t, http.MethodPost, "/api/v1/mapping/geocode", map[string]string{"address": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	f.geocoder.AssertExpectations(t)
}

func TestRouteEndpointGeocodesAddresses(t *testing.T) {
	f := newFixture(t)
	dest := Coordinates{Latitude: -33.8568, Longitude: 151.2153}
	f.geocoder.On("Geocode", mock.Anything, "Sydney").Return(sydney, nil).Once()
	f.routes.On("Directions", mock.Anything, sydney[0].Coordinates, dest, ModeDriving).
		Return(Route{Mode: ModeDriving, DistanceMeters: 2500, DurationSeconds: 420}, nil).Once()

	resp := f.do(t, http.MethodPost, "/api/v1/mapping/route", map[string]string{
		"origin":      "Sydney",
		"destination": "-33.8568,151.2153",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"distance_m":2500`)
	f.geocoder.AssertExpectations(t)
	f.routes.AssertExpectations(t)
}

func TestRouteEndpointValidation(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/api/v1/mapping/route", map[string]string{"origin": "1,1"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = f.do(t, http.MethodPost, "/api/v1/mapping/route", map[string]string{"origin": "1,1", "destination": "2,2", "mode": "boat"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	f.routes.On("Directions", mock.Anything, mock.Anything, mock.Anything, ModeCycling).
		Return(Route{}, ErrUpstream).Once()
	resp = f.do(t, http.MethodPost, "/api/v1/mapping/route", map[string]string{"origin": "1,1", "destination": "2,2", "mode": "cycling"})
	assert.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestNearbyEndpoint(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	ctx := context.Background()
	require.NoError(t, f.repo.Create(ctx, businesses.Business{ID: "near", Name: "Near", Latitude: ptr(-33.8700), Longitude: ptr(151.2100), CreatedAt: now}))
	require.NoError(t, f.repo.Create(ctx, businesses.Business{ID: "edge", Name: "Edge", Latitude: ptr(-33.9200), Longitude: ptr(151.2500), CreatedAt: now}))
	require.NoError(t, f.repo.Create(ctx, businesses.Business{ID: "mel", Name: "Melbourne", Latitude: ptr(-37.8136), Longitude: ptr(144.9631), CreatedAt: now}))

	resp := f.do(t, http.MethodGet, "/api/v1/mapping/businesses?lat=-33.8688&lng=151.2093", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var out struct {
		Success    bool             `json:"success"`
		Businesses []NearbyBusiness `json:"businesses"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Businesses, 1)
	assert.Equal(t, "near", out.Businesses[0].ID)

	resp = f.do(t, http.MethodGet, "/api/v1/mapping/businesses?lat=-33.8688&lng=151.2093&radius=10", nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Businesses, 2)
	assert.Equal(t, "edge", out.Businesses[1].ID)

	resp = f.do(t, http.MethodGet, "/api/v1/mapping/businesses?lat=abc&lng=151", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	resp = f.do(t, http.MethodGet, "/api/v1/mapping/businesses?lat=-33&lng=151&radius=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
