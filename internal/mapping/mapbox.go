package mapping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

const (
	defaultBaseURL = "https://api.mapbox.com"
	geocodeLimit   = 5
)

// Client calls the Mapbox geocoding and directions APIs.
type Client struct {
	Token   string
	BaseURL string
	// Country restricts geocoding to ISO 3166 alpha-2 codes, comma separated.
	Country string
	HTTP    *http.Client
}

// NewClient constructs a Client.
func NewClient(token, baseURL, country string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		Token:   token,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Country: country,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type geocodeResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
		Relevance float64   `json:"relevance"`
	} `json:"features"`
	Message string `json:"message"`
}

// Geocode resolves an address to candidate places, best match first.
func (c *Client) Geocode(ctx context.Context, address string) ([]Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if c.Token == "" {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("access_token", c.Token)
	q.Set("limit", fmt.Sprint(geocodeLimit))
	if c.Country != "" {
		q.Set("country", strings.ToLower(c.Country))
	}
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", c.BaseURL, url.PathEscape(address), q.Encode())

	var body geocodeResponse
	if err := c.get(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	places := make([]Place, 0, len(body.Features))
	for _, f := range body.Features {
		if len(f.Center) != 2 {
			continue
		}
		places = append(places, Place{
			Name:        f.PlaceName,
			Coordinates: Coordinates{Longitude: f.Center[0], Latitude: f.Center[1]},
			Relevance:   f.Relevance,
		})
	}
	return places, nil
}

type directionsResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64         `json:"distance"`
		Duration float64         `json:"duration"`
		Geometry json.RawMessage `json:"geometry"`
	} `json:"routes"`
	Message string `json:"message"`
}

// Directions returns the primary route between two coordinates.
func (c *Client) Directions(ctx context.Context, from, to Coordinates, mode Mode) (Route, error) {
	if c.Token == "" {
		return Route{}, ErrNotConfigured
	}
	q := url.Values{}
	q.Set("access_token", c.Token)
	q.Set("geometries", "geojson")
	q.Set("overview", "full")
	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/%s/%f,%f;%f,%f?%s",
		c.BaseURL, mode,
		from.Longitude, from.Latitude,
		to.Longitude, to.Latitude,
		q.Encode(),
	)

	var body directionsResponse
	if err := c.get(ctx, endpoint, &body); err != nil {
		return Route{}, err
	}
	if body.Code != "" && body.Code != "Ok" {
		if body.Code == "NoRoute" {
			return Route{}, fmt.Errorf("%w: no route between points", ErrNoResults)
		}
		return Route{}, fmt.Errorf("%w: %s %s", ErrUpstream, body.Code, body.Message)
	}
	if len(body.Routes) == 0 {
		return Route{}, fmt.Errorf("%w: no route between points", ErrNoResults)
	}

	best := body.Routes[0]
	route := Route{
		Origin:          from,
		Destination:     to,
		Mode:            mode,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		Geometry:        best.Geometry,
	}
	if err := describeGeometry(&route); err != nil {
		return Route{}, err
	}
	return route, nil
}

// describeGeometry checks the route geometry is a GeoJSON LineString and fills
// in its bounding box and point count.
func describeGeometry(r *Route) error {
	if len(r.Geometry) == 0 {
		return nil
	}
	var g geom.T
	if err := geojson.Unmarshal(r.Geometry, &g); err != nil {
		return fmt.Errorf("%w: decode route geometry: %v", ErrUpstream, err)
	}
	line, ok := g.(*geom.LineString)
	if !ok {
		return fmt.Errorf("%w: route geometry is %T, want LineString", ErrUpstream, g)
	}
	r.Points = line.NumCoords()
	if r.Points > 0 {
		b := line.Bounds()
		r.BBox = [4]float64{b.Min(0), b.Min(1), b.Max(0), b.Max(1)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s", ErrUpstream, redact(err.Error(), c.Token))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		_ = json.Unmarshal(data, &apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusUnprocessableEntity && apiErr.Code == "NoRoute" {
			return fmt.Errorf("%w: %s", ErrNoResults, msg)
		}
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, msg)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}

// redact strips the access token from transport errors, which embed the URL.
func redact(msg, token string) string {
	if token == "" {
		return msg
	}
	return strings.ReplaceAll(msg, token, "REDACTED")
}
